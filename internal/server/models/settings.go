package models

import "time"

// SiteSettings is the singleton branding and contact record.
type SiteSettings struct {
	BrandName    string    `json:"brand_name"`
	LogoURL      string    `json:"logo_url"`
	AboutTitle   string    `json:"about_title"`
	AboutContent string    `json:"about_content"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone"`
	InstagramURL string    `json:"instagram_url"`
	ClientsList  string    `json:"clients_list"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DefaultSiteSettings is what readers see before the admin saves anything.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		BrandName:  "Your Name",
		AboutTitle: "About",
	}
}

// SettingsPatch is a flat partial update of SiteSettings.
type SettingsPatch struct {
	BrandName    *string `json:"brand_name,omitempty"`
	LogoURL      *string `json:"logo_url,omitempty"`
	AboutTitle   *string `json:"about_title,omitempty"`
	AboutContent *string `json:"about_content,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`
	InstagramURL *string `json:"instagram_url,omitempty"`
	ClientsList  *string `json:"clients_list,omitempty"`
}

func (patch SettingsPatch) Apply(s *SiteSettings) {
	for _, f := range []struct {
		src *string
		dst *string
	}{
		{patch.BrandName, &s.BrandName},
		{patch.LogoURL, &s.LogoURL},
		{patch.AboutTitle, &s.AboutTitle},
		{patch.AboutContent, &s.AboutContent},
		{patch.ContactEmail, &s.ContactEmail},
		{patch.ContactPhone, &s.ContactPhone},
		{patch.InstagramURL, &s.InstagramURL},
		{patch.ClientsList, &s.ClientsList},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
}
