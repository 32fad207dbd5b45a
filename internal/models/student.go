package models

import "time"

// Student represents a learner registered with a school.
type Student struct {
	ID          int64     `db:"id" json:"id"`
	SchoolID    int64     `db:"school_id" json:"school_id"`
	FullName    string    `db:"full_name" json:"full_name"`
	StudentCode string    `db:"student_code" json:"student_code"`
	Email       string    `db:"email" json:"email"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// StudentDetail contains student information with the owning school name.
type StudentDetail struct {
	Student
	SchoolName string `db:"school_name" json:"school_name"`
}
