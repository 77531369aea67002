package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/edutrack/core/classroom"
)

type classroomRepository struct {
	db *DB
}

func NewClassroomRepository(db *DB) classroom.Repository {
	return &classroomRepository{db: db}
}

func (repo *classroomRepository) userName(id int) (name, email string) {
	if usr, ok := repo.db.users[id]; ok {
		return usr.Name, usr.Email
	}
	return "", ""
}

func (repo *classroomRepository) submissionOf(assignmentID, studentID int) *classroom.Submission {
	for _, sub := range repo.db.submissions {
		if sub.AssignmentID == assignmentID && sub.StudentID == studentID {
			return sub
		}
	}
	return nil
}

func (repo *classroomRepository) CreateAssignment(_ context.Context, asg classroom.Assignment) (classroom.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.assignmentSeq++
	asg.ID = repo.db.assignmentSeq
	repo.db.assignments[asg.ID] = &asg
	return asg, nil
}

func (repo *classroomRepository) GetAssignment(_ context.Context, id int) (classroom.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if asg, ok := repo.db.assignments[id]; ok {
		return *asg, nil
	}
	return classroom.Assignment{}, classroom.ErrNotFound
}

// DeleteAssignment deletes the assignment and, in cascade, its submissions.
func (repo *classroomRepository) DeleteAssignment(_ context.Context, id, teacherID int) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	asg, ok := repo.db.assignments[id]
	if !ok || asg.TeacherID != teacherID {
		return false, nil
	}
	delete(repo.db.assignments, id)
	for subID, sub := range repo.db.submissions {
		if sub.AssignmentID == id {
			delete(repo.db.submissions, subID)
		}
	}
	return true, nil
}

func (repo *classroomRepository) QueryTeacherAssignments(_ context.Context, teacherID int) ([]classroom.TeacherAssignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	asgs := make([]classroom.TeacherAssignment, 0)
	for _, asg := range repo.db.assignments {
		if asg.TeacherID != teacherID {
			continue
		}
		var count int
		for _, sub := range repo.db.submissions {
			if sub.AssignmentID == asg.ID {
				count++
			}
		}
		asgs = append(asgs, classroom.TeacherAssignment{Assignment: *asg, SubmissionCount: count})
	}
	sort.Slice(asgs, func(i, j int) bool {
		if asgs[i].CreatedAt.Equal(asgs[j].CreatedAt.Time) {
			return asgs[i].ID > asgs[j].ID
		}
		return asgs[i].CreatedAt.After(asgs[j].CreatedAt.Time)
	})
	return asgs, nil
}

func (repo *classroomRepository) QueryStudentAssignments(_ context.Context, studentID int) ([]classroom.StudentAssignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	asgs := make([]classroom.StudentAssignment, 0, len(repo.db.assignments))
	for _, asg := range repo.db.assignments {
		teacherName, _ := repo.userName(asg.TeacherID)
		asgs = append(asgs, classroom.StudentAssignment{
			Assignment:   *asg,
			TeacherName:  teacherName,
			HasSubmitted: repo.submissionOf(asg.ID, studentID) != nil,
		})
	}
	sort.Slice(asgs, func(i, j int) bool {
		if asgs[i].DueDate.Equal(asgs[j].DueDate.Time) {
			return asgs[i].ID < asgs[j].ID
		}
		return asgs[i].DueDate.Before(asgs[j].DueDate.Time)
	})
	return asgs, nil
}

func (repo *classroomRepository) CreateSubmission(_ context.Context, sub classroom.Submission) (classroom.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.submissionOf(sub.AssignmentID, sub.StudentID) != nil {
		return classroom.Submission{}, classroom.ErrAlreadySubmitted
	}
	repo.db.submissionSeq++
	sub.ID = repo.db.submissionSeq
	repo.db.submissions[sub.ID] = &sub
	return sub, nil
}

func (repo *classroomRepository) sortedSubmissions(keep func(sub classroom.Submission, asg classroom.Assignment) bool) []classroom.Submission {
	subs := make([]classroom.Submission, 0)
	for _, sub := range repo.db.submissions {
		asg, ok := repo.db.assignments[sub.AssignmentID]
		if ok && keep(*sub, *asg) {
			subs = append(subs, *sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].SubmittedAt.Equal(subs[j].SubmittedAt.Time) {
			return subs[i].ID > subs[j].ID
		}
		return subs[i].SubmittedAt.After(subs[j].SubmittedAt.Time)
	})
	return subs
}

func (repo *classroomRepository) QueryStudentSubmissions(_ context.Context, studentID int) ([]classroom.StudentSubmission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subs := repo.sortedSubmissions(func(sub classroom.Submission, _ classroom.Assignment) bool {
		return sub.StudentID == studentID
	})
	res := make([]classroom.StudentSubmission, 0, len(subs))
	for _, sub := range subs {
		asg := repo.db.assignments[sub.AssignmentID]
		teacherName, _ := repo.userName(asg.TeacherID)
		res = append(res, classroom.StudentSubmission{
			Submission:        sub,
			AssignmentTitle:   asg.Title,
			AssignmentDueDate: asg.DueDate,
			TeacherName:       teacherName,
		})
	}
	return res, nil
}

func (repo *classroomRepository) teacherSubmissions(subs []classroom.Submission) []classroom.TeacherSubmission {
	res := make([]classroom.TeacherSubmission, 0, len(subs))
	for _, sub := range subs {
		name, email := repo.userName(sub.StudentID)
		res = append(res, classroom.TeacherSubmission{
			Submission:      sub,
			AssignmentTitle: repo.db.assignments[sub.AssignmentID].Title,
			StudentName:     name,
			StudentEmail:    email,
		})
	}
	return res
}

func (repo *classroomRepository) QueryTeacherSubmissions(_ context.Context, teacherID int) ([]classroom.TeacherSubmission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subs := repo.sortedSubmissions(func(_ classroom.Submission, asg classroom.Assignment) bool {
		return asg.TeacherID == teacherID
	})
	return repo.teacherSubmissions(subs), nil
}

func (repo *classroomRepository) QueryAssignmentSubmissions(_ context.Context, assignmentID int) ([]classroom.TeacherSubmission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subs := repo.sortedSubmissions(func(sub classroom.Submission, _ classroom.Assignment) bool {
		return sub.AssignmentID == assignmentID
	})
	return repo.teacherSubmissions(subs), nil
}

func (repo *classroomRepository) CountAssignments(_ context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.assignments), nil
}

func (repo *classroomRepository) CountStudentSubmissions(_ context.Context, studentID int) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int
	for _, sub := range repo.db.submissions {
		if sub.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

func (repo *classroomRepository) QueryProfileRows(_ context.Context, studentID int) ([]classroom.ProfileRow, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows := make([]classroom.ProfileRow, 0, len(repo.db.assignments))
	for _, asg := range repo.db.assignments {
		teacher, ok := repo.db.users[asg.TeacherID]
		if !ok || !teacher.IsTeacher() {
			continue
		}
		rows = append(rows, classroom.ProfileRow{
			TeacherName: teacher.Name,
			Title:       asg.Title,
			Completed:   repo.submissionOf(asg.ID, studentID) != nil,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TeacherName == rows[j].TeacherName {
			return rows[i].Title < rows[j].Title
		}
		return rows[i].TeacherName < rows[j].TeacherName
	})
	return rows, nil
}
