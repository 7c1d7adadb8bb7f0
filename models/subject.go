package models

type Subject struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null;unique" json:"name"`
	Code        string `gorm:"size:20" json:"code"`
	Description string `gorm:"type:text" json:"description"`
}

// Subject proficiency levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

type UserSubject struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	UserID    uint     `gorm:"not null;index:idx_user_subject,unique" json:"user_id"`
	SubjectID uint     `gorm:"not null;index:idx_user_subject,unique" json:"subject_id"`
	Subject   *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Level     string   `gorm:"size:20;default:'beginner'" json:"level"`
}
