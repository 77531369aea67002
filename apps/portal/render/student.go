package render

import (
	"time"

	"github.com/trezcool/edutrack/core/classroom"
	"github.com/trezcool/edutrack/core/portal"
)

// AvailableAssignments renders the student's assignment cards with their derived status.
func AvailableAssignments(asgs []classroom.StudentAssignment, now time.Time, fileURL FileURL) Panel {
	panel := Panel{Section: portal.SectionAvailableAssignments}
	if len(asgs) == 0 {
		panel.Placeholder = "No assignments available."
		return panel
	}

	for _, asg := range asgs {
		status := classroom.StudentStatus(asg, now)
		card := Card{
			Title: asg.Title,
			Badge: badge(status),
			Meta: []string{
				"Teacher: " + asg.TeacherName,
				"Due: " + formatDateTime(asg.DueDate),
			},
			Body: asg.Description,
		}
		if status == classroom.StatusOverdue {
			card.Note, card.Alert = "OVERDUE!", true
		}
		if status == classroom.StatusCompleted {
			card.Note = "✓ Already Submitted"
		} else {
			card.Actions = append(card.Actions, Action{Kind: ActionOpenSubmission, Label: "Submit Assignment", Target: asg.ID})
		}
		if asg.FilePath != "" {
			card.Links = append(card.Links, Link{Label: "Download Assignment File", URL: fileURL(asg.FilePath)})
		}
		panel.Cards = append(panel.Cards, card)
	}
	return panel
}

func MySubmissions(subs []classroom.StudentSubmission, fileURL FileURL) Panel {
	panel := Panel{Section: portal.SectionMySubmissions}
	if len(subs) == 0 {
		panel.Placeholder = "No submissions yet."
		return panel
	}

	for _, sub := range subs {
		card := Card{
			Title:    sub.AssignmentTitle,
			Subtitle: "Teacher: " + sub.TeacherName,
			Badge:    badge(classroom.StatusSubmitted),
			Meta: []string{
				"Submitted: " + formatDate(sub.SubmittedAt),
				"Due Date: " + formatDate(sub.AssignmentDueDate),
			},
			Links: []Link{{Label: "Download My Submission", URL: fileURL(sub.FilePath)}},
		}
		if sub.Notes != "" {
			card.Body = "Notes: " + sub.Notes
		}
		panel.Cards = append(panel.Cards, card)
	}
	return panel
}

// Profile renders the progress summary, grouping assignments by teacher.
func Profile(prof classroom.Profile) Panel {
	panel := Panel{
		Section: portal.SectionStudentProfile,
		Header:  &Header{Title: "Work from Different Teachers:"},
		Facts: []Fact{
			{Label: "Total Assignments", Value: itoa(prof.TotalAssignments)},
			{Label: "Completed", Value: itoa(prof.CompletedAssignments)},
			{Label: "Pending", Value: itoa(prof.PendingAssignments)},
		},
	}
	if len(prof.TeachersAssignments) == 0 {
		panel.Placeholder = "No assignments from any teachers yet."
		return panel
	}

	for _, group := range prof.TeachersAssignments {
		card := Card{Title: "👨‍🏫 " + group.TeacherName}
		for _, item := range group.Assignments {
			mark := " ⏳"
			if item.Completed {
				mark = " ✓"
			}
			card.Tags = append(card.Tags, Tag{Label: item.Title + mark, Completed: bool(item.Completed)})
		}
		panel.Cards = append(panel.Cards, card)
	}
	return panel
}

// SubmissionForm is the form a student submits an assignment with.
func SubmissionForm(assignmentTitle string) Panel {
	return Panel{
		Section: portal.SectionSubmissionForm,
		Header:  &Header{Title: "Submit Assignment: " + assignmentTitle},
		Fields: []Field{
			{Name: "file", Label: "File", Required: true},
			{Name: "notes", Label: "Notes (optional)"},
		},
		Actions: []Action{{Kind: ActionNavigate, Label: "Cancel", Section: portal.SectionAvailableAssignments}},
	}
}
