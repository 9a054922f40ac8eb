package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the account table. Every login (patient, doctor, admin)
// lives here; doctor-role accounts link to their doctor row via DoctorID.
type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	Age       int       `gorm:"not null;default:0" json:"age"`
	Gender    string    `gorm:"type:varchar(20)" json:"gender,omitempty"`
	Country   string    `gorm:"type:varchar(100)" json:"country,omitempty"`
	Role      string    `gorm:"type:varchar(20);not null;default:'patient';index" json:"role"`
	DoctorID  *int      `gorm:"index" json:"doctor_id,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor       *Doctor       `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// Role constants
const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// IsAdmin reports whether the account carries the admin role.
func (p *Patient) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// OwnsDoctor reports whether the account is the login for the given doctor.
func (p *Patient) OwnsDoctor(doctorID int) bool {
	return p.DoctorID != nil && *p.DoctorID == doctorID
}
