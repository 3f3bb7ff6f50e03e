package postgres

// CustomRoleModel é o model GORM para papéis customizados.
// Permissions guarda apenas os overrides esparsos.
type CustomRoleModel struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	OrganizationID string          `gorm:"type:uuid;not null;index"`
	Name           string          `gorm:"type:varchar(100);not null"`
	Description    *string         `gorm:"type:text"`
	BasedOnRole    string          `gorm:"type:varchar(50);not null"`
	IsDefault      bool            `gorm:"not null;default:false"`
	Permissions    map[string]bool `gorm:"serializer:json;type:jsonb;not null"`
	CreatedByID    string          `gorm:"type:uuid;not null"`
	CreatedAt      int64           `gorm:"autoCreateTime"`
	UpdatedAt      int64           `gorm:"autoUpdateTime"`
}

func (CustomRoleModel) TableName() string {
	return "custom_roles"
}

// UserModel é o model GORM para usuários.
// Role guarda a referência no formato de fio; CustomRoleID espelha a variante
// customizada para que a foreign key impeça excluir papéis em uso.
type UserModel struct {
	ID             string           `gorm:"type:uuid;primaryKey"`
	OrganizationID string           `gorm:"type:uuid;not null;index"`
	Email          string           `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name           string           `gorm:"type:varchar(500);not null"`
	Role           string           `gorm:"type:varchar(50);not null;index"`
	CustomRoleID   *int64           `gorm:"index"`
	CustomRole     *CustomRoleModel `gorm:"foreignKey:CustomRoleID;constraint:OnDelete:RESTRICT"`
	CreatedAt      int64            `gorm:"autoCreateTime;index"`
	UpdatedAt      int64            `gorm:"autoUpdateTime"`
	DeletedAt      *int64           `gorm:"index"` // Soft delete
}

func (UserModel) TableName() string {
	return "users"
}
