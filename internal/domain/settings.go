package domain

// ContactLinks holds the site's outbound social/contact handles
type ContactLinks struct {
	WhatsApp  string `json:"whatsapp,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	Email     string `json:"email,omitempty"`
}

// AdCodes holds the raw ad-network embed snippets per slot. The service
// stores and serves them verbatim; rendering is the storefront's concern.
type AdCodes struct {
	Header  string `json:"header,omitempty"`
	Sidebar string `json:"sidebar,omitempty"`
	Footer  string `json:"footer,omitempty"`
}

// SiteSettings is the single site-wide configuration record, amended in
// place through the admin surface and never deleted
type SiteSettings struct {
	SiteName          string       `json:"site_name"`
	Contact           ContactLinks `json:"contact"`
	AdCodes           AdCodes      `json:"ad_codes"`
	AdminPasswordHash string       `json:"admin_password_hash"`
	VisitCount        int64        `json:"visit_count"`
	EarningsTotal     float64      `json:"earnings_total"`
}

// PublicSiteSettings is the subset of SiteSettings exposed to the
// storefront without authentication
type PublicSiteSettings struct {
	SiteName string       `json:"site_name"`
	Contact  ContactLinks `json:"contact"`
	AdCodes  AdCodes      `json:"ad_codes"`
}

// Public strips the admin-only fields
func (s *SiteSettings) Public() PublicSiteSettings {
	return PublicSiteSettings{
		SiteName: s.SiteName,
		Contact:  s.Contact,
		AdCodes:  s.AdCodes,
	}
}
