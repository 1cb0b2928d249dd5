package entity

import "context"

const DefaultTagColor = "#588575"

type ConfigTag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// CompanySettings is the single settings row (id 1).
type CompanySettings struct {
	CompanyName  string `json:"company_name"`
	ContactEmail string `json:"contact_email"`
	Address      string `json:"address"`
	LogoURL      string `json:"logo_url"`
}

// SettingsPatch updates only the non-nil fields.
type SettingsPatch struct {
	CompanyName  *string `json:"company_name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	Address      *string `json:"address,omitempty"`
	LogoURL      *string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

func (p SettingsPatch) Empty() bool {
	return p.CompanyName == nil && p.ContactEmail == nil && p.Address == nil && p.LogoURL == nil
}

// Vocabulary names the two plain-name reference tables.
type Vocabulary string

const (
	VocabularyChannels Vocabulary = "channels"
	VocabularyOrigins  Vocabulary = "origins"
)

type SettingsRepositoryInterface interface {
	GetCompany(ctx context.Context) (*CompanySettings, error)
	UpdateCompany(ctx context.Context, patch SettingsPatch) error

	ListTags(ctx context.Context) ([]ConfigTag, error)
	CreateTag(ctx context.Context, tag *ConfigTag) error
	UpdateTag(ctx context.Context, tag ConfigTag) error
	DeleteTag(ctx context.Context, id string) error

	ListNames(ctx context.Context, v Vocabulary) ([]string, error)
	AddName(ctx context.Context, v Vocabulary, name string) error
	RenameName(ctx context.Context, v Vocabulary, oldName, newName string) error
	DeleteName(ctx context.Context, v Vocabulary, name string) error
}
