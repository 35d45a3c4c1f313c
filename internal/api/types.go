package api

// Site is the tenant's configured website record: free-form settings plus
// the set of enabled plugins.
type Site struct {
	ID            int            `json:"id"`
	Slug          string         `json:"slug"`
	Settings      map[string]any `json:"settings"`
	ActivePlugins []string       `json:"active_plugins"`
}

// Category is a menu category in the public projection.
type Category struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Image    string `json:"image,omitempty"`
	Order    int    `json:"order"`
	IsActive bool   `json:"is_active"`
}

// Product is a menu product in the public projection.
type Product struct {
	ID          int     `json:"id"`
	CategoryID  int     `json:"category"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	IsAvailable bool    `json:"is_available"`
}

// PublicMenu is the payload served to menu-rendering collaborators.
type PublicMenu struct {
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
}

// SitemapEntry is one row of the sitemap feed.
type SitemapEntry struct {
	Slug      string `json:"slug"`
	UpdatedAt string `json:"updated_at"`
}

type togglePluginRequest struct {
	PluginKey string `json:"plugin_key"`
	IsActive  bool   `json:"is_active"`
}
