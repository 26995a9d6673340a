// Package employee defines the employee record and the request types of the
// employee endpoints.
package employee

import (
	"time"

	"github.com/deppfellow/employee-registry/internal/model"
)

// Profile is the mutable part of an employee record. Create and Update both
// take a full Profile; fields missing from the payload end up empty.
type Profile struct {
	FullName    string      `json:"fullName"`
	CompanyName string      `json:"companyName"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	ParentPhone string      `json:"parentPhone"`
	Dob         *model.Date `json:"dob"`
	Address     string      `json:"address"`
	District    string      `json:"district"`
	Country     string      `json:"country"`
	Pincode     string      `json:"pincode"`

	Department  string      `json:"department"`
	JobTitle    string      `json:"jobTitle"`
	JoiningDate *model.Date `json:"joiningDate"`
	Skills      []string    `json:"skills"`
	Bio         string      `json:"bio"`

	School         string `json:"school"`
	College        string `json:"college"`
	Degree         string `json:"degree"`
	Major          string `json:"major"`
	GraduationYear string `json:"graduationYear"`

	LinkedIn   string `json:"linkedIn"`
	LeetCode   string `json:"leetCode"`
	HackerRank string `json:"hackerRank"`
	ResumeName string `json:"resumeName"`
}

// Normalize makes the profile match what the store reads back: skills is
// never nil and zero dates are absent.
func (p *Profile) Normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Dob != nil && p.Dob.IsZero() {
		p.Dob = nil
	}
	if p.JoiningDate != nil && p.JoiningDate.IsZero() {
		p.JoiningDate = nil
	}
}

// Employee is a stored employee record.
type Employee struct {
	ID string `json:"id"`
	Profile
	SubmittedAt time.Time `json:"submittedAt"`
}

// Stats summarizes the registry. Departments and Skills count records per
// non-empty value.
type Stats struct {
	Total       int            `json:"total"`
	Departments map[string]int `json:"departments"`
	Skills      map[string]int `json:"skills"`
}

// ComputeStats aggregates stats over employees.
func ComputeStats(employees []Employee) Stats {
	stats := Stats{
		Total:       len(employees),
		Departments: map[string]int{},
		Skills:      map[string]int{},
	}

	for _, e := range employees {
		if e.Department != "" {
			stats.Departments[e.Department]++
		}
		for _, skill := range e.Skills {
			if skill != "" {
				stats.Skills[skill]++
			}
		}
	}

	return stats
}
