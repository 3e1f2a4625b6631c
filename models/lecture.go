package models

// University is a school whose lectures are reviewed on the agora board.
type University struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:20;not null" json:"name"`
	EmailHost string `gorm:"size:30" json:"email_host"`
}

// College groups majors inside a university.
type College struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	UniversityID uint        `gorm:"not null;index" json:"-"`
	University   *University `gorm:"constraint:OnDelete:CASCADE" json:"university,omitempty"`
	Name         string      `gorm:"size:30" json:"name"`
}

// Major is a course of study offered by a college.
type Major struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	UniversityID uint        `gorm:"not null;index" json:"-"`
	University   *University `gorm:"constraint:OnDelete:CASCADE" json:"university,omitempty"`
	CollegeID    uint        `gorm:"not null;index" json:"-"`
	College      *College    `gorm:"constraint:OnDelete:CASCADE" json:"college,omitempty"`
	Name         string      `gorm:"size:30" json:"name"`
}

// Lecture is a reviewable course, unique per (lecture_id, university).
type Lecture struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"size:35;not null" json:"name"`
	LectureID    string      `gorm:"size:20;not null;index:idx_lectures_univ,unique" json:"lecture_id"`
	Instructor   string      `gorm:"size:35" json:"instructor"`
	UniversityID *uint       `gorm:"index:idx_lectures_univ,unique" json:"-"`
	University   *University `gorm:"constraint:OnDelete:SET NULL" json:"university,omitempty"`
	CollegeID    *uint       `json:"-"`
	College      *College    `gorm:"constraint:OnDelete:SET NULL" json:"college,omitempty"`
	MajorID      *uint       `json:"-"`
	Major        *Major      `gorm:"constraint:OnDelete:SET NULL" json:"major,omitempty"`
	Semesters    []Semester  `gorm:"many2many:lecture_semesters" json:"semesters"`
}

// Semester seasons, in calendar order.
const (
	SeasonWinter = 1
	SeasonSpring = 2
	SeasonSummer = 3
	SeasonFall   = 4
)

// Semester is a (year, season) pair, unique as a whole.
type Semester struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	Year   int  `gorm:"default:2022;index:idx_semesters_term,unique" json:"year"`
	Season int  `gorm:"default:1;index:idx_semesters_term,unique" json:"season"`
}
