package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// MySite fetches the site owned by the authenticated user.
func (c *Client) MySite(ctx context.Context) (Site, error) {
	return c.getSite(ctx, "/sites/site/me/")
}

// SiteBySlug fetches the management record for a specific site.
func (c *Client) SiteBySlug(ctx context.Context, slug string) (Site, error) {
	return c.getSite(ctx, fmt.Sprintf("/sites/site/%s/", url.PathEscape(slug)))
}

// PublicSite fetches the public projection rendered on customer pages.
func (c *Client) PublicSite(ctx context.Context, slug string) (Site, error) {
	return c.getSite(ctx, fmt.Sprintf("/sites/site/public/%s/", url.PathEscape(slug)))
}

func (c *Client) getSite(ctx context.Context, endpoint string) (Site, error) {
	raw, err := c.Get(ctx, endpoint)
	if err != nil {
		return Site{}, err
	}
	var site Site
	if err := json.Unmarshal(raw, &site); err != nil {
		return Site{}, fmt.Errorf("api: decode site from %s: %w", endpoint, err)
	}
	return site, nil
}

// UserSites fetches all sites owned by the authenticated user.
func (c *Client) UserSites(ctx context.Context) ([]Site, error) {
	raw, err := c.Get(ctx, "/sites/user-sites/")
	if err != nil {
		return nil, err
	}
	var sites []Site
	if err := json.Unmarshal(raw, &sites); err != nil {
		return nil, fmt.Errorf("api: decode user sites: %w", err)
	}
	return sites, nil
}

// TogglePlugin asks the server to enable or disable a plugin. The response
// body carries no required payload; only success matters.
func (c *Client) TogglePlugin(ctx context.Context, pluginKey string, isActive bool) error {
	_, err := c.Post(ctx, "/sites/site/toggle-plugin/", togglePluginRequest{
		PluginKey: pluginKey,
		IsActive:  isActive,
	})
	return err
}

// PublicMenuData fetches the categories and products of a site's menu.
func (c *Client) PublicMenuData(ctx context.Context, slug string) (PublicMenu, error) {
	raw, err := c.Get(ctx, fmt.Sprintf("/menu/public-data/%s/", url.PathEscape(slug)))
	if err != nil {
		return PublicMenu{}, err
	}
	var menu PublicMenu
	if err := json.Unmarshal(raw, &menu); err != nil {
		return PublicMenu{}, fmt.Errorf("api: decode public menu for %s: %w", slug, err)
	}
	return menu, nil
}

// Sitemap fetches the slug/updated-at feed consumed by sitemap generation.
func (c *Client) Sitemap(ctx context.Context) ([]SitemapEntry, error) {
	raw, err := c.Get(ctx, "/sites/site/sitemap/")
	if err != nil {
		return nil, err
	}
	var entries []SitemapEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("api: decode sitemap: %w", err)
	}
	return entries, nil
}
