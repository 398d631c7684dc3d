package model

// PersonalTrainer 私教，学员通过 access_code 绑定
// swagger:model PersonalTrainer
type PersonalTrainer struct {
	UUIDBase
	ProfileID   *string `gorm:"type:varchar(36);uniqueIndex" json:"profile_id,omitempty"`
	Name        string  `gorm:"size:100;not null" json:"name"`
	Email       string  `gorm:"size:100" json:"email"`
	Phone       string  `gorm:"size:30" json:"phone,omitempty"`
	PhotoURL    *string `gorm:"size:255" json:"photo_url"`
	Specialty   string  `gorm:"size:100" json:"specialty"`
	Bio         string  `gorm:"type:text" json:"bio,omitempty"`
	AccessCode  string  `gorm:"size:20;uniqueIndex;not null" json:"access_code"`
	IsActive    bool    `gorm:"default:true" json:"is_active"`
	PaymentInfo string  `gorm:"type:text" json:"payment_info,omitempty"`
	PlansInfo   string  `gorm:"type:text" json:"plans_info,omitempty"`

	StudentsCount int64 `gorm:"-" json:"students_count,omitempty"`
}

func (PersonalTrainer) TableName() string {
	return "personal_trainers"
}
