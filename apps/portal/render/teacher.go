package render

import (
	"github.com/trezcool/edutrack/core/classroom"
	"github.com/trezcool/edutrack/core/portal"
)

func TeacherAssignments(asgs []classroom.TeacherAssignment, fileURL FileURL) Panel {
	panel := Panel{Section: portal.SectionAssignmentsList}
	if len(asgs) == 0 {
		panel.Placeholder = "No assignments created yet."
		return panel
	}

	for _, asg := range asgs {
		count := itoa(asg.SubmissionCount)
		card := Card{
			Title: asg.Title,
			Badge: badge(classroom.TeacherStatus(asg)),
			Meta: []string{
				"Created: " + formatDate(asg.CreatedAt),
				"Due: " + formatDate(asg.DueDate),
				"Submissions: " + count,
			},
			Body: asg.Description,
			Actions: []Action{
				{Kind: ActionViewSubmission, Label: "View Submissions (" + count + ")", Target: asg.ID},
				{Kind: ActionDelete, Label: "Delete", Target: asg.ID},
			},
		}
		if asg.FilePath != "" {
			card.Links = []Link{{Label: "Download File", URL: fileURL(asg.FilePath)}}
		}
		panel.Cards = append(panel.Cards, card)
	}
	return panel
}

func submissionCards(subs []classroom.TeacherSubmission, fileURL FileURL) []Card {
	cards := make([]Card, 0, len(subs))
	for _, sub := range subs {
		card := Card{
			Title:    sub.AssignmentTitle,
			Subtitle: "Student: " + sub.StudentName,
			Badge:    badge(classroom.StatusSubmitted),
			Meta: []string{
				"Submitted: " + formatDate(sub.SubmittedAt),
				"Student Email: " + sub.StudentEmail,
			},
			Links: []Link{{Label: "Download Submission", URL: fileURL(sub.FilePath)}},
		}
		if sub.Notes != "" {
			card.Body = "Notes: " + sub.Notes
		}
		cards = append(cards, card)
	}
	return cards
}

// TeacherSubmissions renders every submission made to the teacher's assignments.
func TeacherSubmissions(subs []classroom.TeacherSubmission, fileURL FileURL) Panel {
	panel := Panel{Section: portal.SectionSubmissionsList}
	if len(subs) == 0 {
		panel.Placeholder = "No submissions yet."
		panel.Actions = []Action{{Kind: ActionNavigate, Label: "Go to Assignments", Section: portal.SectionAssignmentsList}}
		return panel
	}

	panel.Header = &Header{
		Title:  "All Submissions",
		Count:  plural(len(subs), "total submission"),
		Action: &Action{Kind: ActionNavigate, Label: "Back to Assignments", Section: portal.SectionAssignmentsList},
	}
	panel.Cards = submissionCards(subs, fileURL)
	return panel
}

// FilteredSubmissions renders the submissions of the assignment titled title.
func FilteredSubmissions(subs []classroom.TeacherSubmission, title string, fileURL FileURL) Panel {
	panel := Panel{Section: portal.SectionSubmissionsList}
	if len(subs) == 0 {
		panel.Placeholder = "No submissions for this assignment yet."
		panel.Actions = []Action{{Kind: ActionShowAll, Label: "View All Submissions"}}
		return panel
	}

	panel.Header = &Header{
		Title:  "Submissions for: " + title,
		Count:  plural(len(subs), "submission"),
		Action: &Action{Kind: ActionShowAll, Label: "Show All Submissions"},
	}
	panel.Cards = submissionCards(subs, fileURL)
	return panel
}

// CreateAssignmentForm is the form a teacher creates an assignment with.
func CreateAssignmentForm() Panel {
	return Panel{
		Section: portal.SectionCreateAssignment,
		Fields: []Field{
			{Name: "title", Label: "Title", Required: true},
			{Name: "description", Label: "Description"},
			{Name: "due_date", Label: "Due Date (YYYY-MM-DDTHH:MM)", Required: true},
			{Name: "file", Label: "File (optional)"},
		},
	}
}
