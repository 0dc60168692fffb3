package models

import (
	"time"
)

const (
	EntryModeUTME        = "utme"
	EntryModeDirectEntry = "direct_entry"
)

type Candidate struct {
	CandidateID   int        `gorm:"primaryKey;column:candidate_id" json:"candidate_id"`
	JambRegNumber string     `gorm:"column:jamb_reg_number;unique" json:"jamb_reg_number"`
	Surname       string     `gorm:"column:surname" json:"surname"`
	FirstName     string     `gorm:"column:first_name" json:"first_name"`
	MiddleName    *string    `gorm:"column:middle_name" json:"middle_name,omitempty"`
	Gender        *string    `gorm:"column:gender" json:"gender,omitempty"`
	DateOfBirth   *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	Email         *string    `gorm:"column:email" json:"email,omitempty"`
	Phone         *string    `gorm:"column:phone" json:"phone,omitempty"`
	StateOfOrigin *string    `gorm:"column:state_of_origin" json:"state_of_origin,omitempty"`
	LGA           *string    `gorm:"column:lga" json:"lga,omitempty"`
	Address       *string    `gorm:"column:address" json:"address,omitempty"`
	EntryMode     string     `gorm:"column:entry_mode;default:utme" json:"entry_mode"`
	ProgrammeID   *int       `gorm:"column:programme_id" json:"programme_id,omitempty"`
	Password      string     `gorm:"column:password" json:"-"`

	// Profile completion flags, each set independently by its section endpoint.
	BiodataCompleted   bool `gorm:"column:biodata_completed;default:false" json:"biodata_completed"`
	EducationCompleted bool `gorm:"column:education_completed;default:false" json:"education_completed"`
	NextOfKinCompleted bool `gorm:"column:next_of_kin_completed;default:false" json:"next_of_kin_completed"`
	SponsorCompleted   bool `gorm:"column:sponsor_completed;default:false" json:"sponsor_completed"`

	NextOfKinName  *string `gorm:"column:next_of_kin_name" json:"next_of_kin_name,omitempty"`
	NextOfKinPhone *string `gorm:"column:next_of_kin_phone" json:"next_of_kin_phone,omitempty"`
	SponsorName    *string `gorm:"column:sponsor_name" json:"sponsor_name,omitempty"`
	SponsorPhone   *string `gorm:"column:sponsor_phone" json:"sponsor_phone,omitempty"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Programme *Programme       `gorm:"foreignKey:ProgrammeID" json:"programme,omitempty"`
	Education *EducationRecord `gorm:"foreignKey:CandidateID" json:"education,omitempty"`
}

func (Candidate) TableName() string { return "candidates" }

// FullName returns the display name used in mails and admin listings.
func (c *Candidate) FullName() string {
	if c.MiddleName != nil && *c.MiddleName != "" {
		return c.Surname + " " + c.FirstName + " " + *c.MiddleName
	}
	return c.Surname + " " + c.FirstName
}

// EducationRecord holds JAMB subject/score data for a scored (UTME) candidate.
type EducationRecord struct {
	EducationID int     `gorm:"primaryKey;column:education_id" json:"education_id"`
	CandidateID int     `gorm:"column:candidate_id;index" json:"candidate_id"`
	Subject1    *string `gorm:"column:subject1" json:"subject1,omitempty"`
	Score1      *int    `gorm:"column:score1" json:"score1,omitempty"`
	Subject2    *string `gorm:"column:subject2" json:"subject2,omitempty"`
	Score2      *int    `gorm:"column:score2" json:"score2,omitempty"`
	Subject3    *string `gorm:"column:subject3" json:"subject3,omitempty"`
	Score3      *int    `gorm:"column:score3" json:"score3,omitempty"`
	Subject4    *string `gorm:"column:subject4" json:"subject4,omitempty"`
	Score4      *int    `gorm:"column:score4" json:"score4,omitempty"`
	Aggregate   *int    `gorm:"column:aggregate" json:"aggregate,omitempty"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
}

func (EducationRecord) TableName() string { return "education_records" }
