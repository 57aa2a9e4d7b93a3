// Package models defines server-side data models persisted in the database.
package models

import (
	"cmp"
	"slices"
	"time"
)

// MediaType classifies an uploaded asset.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Media is one image or video of a project. It lives only inside its
// project's Media list.
type Media struct {
	ID       string    `json:"id"`
	Type     MediaType `json:"type"`
	URL      string    `json:"url"`
	Alt      string    `json:"alt"`
	Order    int       `json:"order"`
	Featured bool      `json:"featured"`
}

// Project is the aggregate root: the project fields plus its embedded,
// ordered media. Version is bumped by every successful write and guards
// read-modify-write cycles against lost updates.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Client      string    `json:"client"`
	Date        string    `json:"date"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Media       []Media   `json:"media"`
	Featured    bool      `json:"featured"`
	Published   bool      `json:"published"`
	Order       *int      `json:"order,omitempty"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FindMedia returns the index of the media item with the given id, or -1.
func (p *Project) FindMedia(id string) int {
	return slices.IndexFunc(p.Media, func(m Media) bool { return m.ID == id })
}

// NextMediaOrder is one past the highest media order, or 0 for an empty list.
func (p *Project) NextMediaOrder() int {
	if len(p.Media) == 0 {
		return 0
	}
	highest := p.Media[0].Order
	for _, m := range p.Media[1:] {
		highest = max(highest, m.Order)
	}
	return highest + 1
}

// SortMedia orders media ascending by Order. Equal orders keep their
// current relative position.
func (p *Project) SortMedia() {
	slices.SortStableFunc(p.Media, func(a, b Media) int {
		return cmp.Compare(a.Order, b.Order)
	})
}

// ProjectInput carries the fields accepted when a project is created.
type ProjectInput struct {
	Title       string `json:"title"`
	Client      string `json:"client"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Featured    bool   `json:"featured"`
	Published   *bool  `json:"published,omitempty"`
	Order       *int   `json:"order,omitempty"`
}

// ProjectPatch is a sparse update: nil fields are left untouched.
type ProjectPatch struct {
	Title       *string `json:"title,omitempty"`
	Client      *string `json:"client,omitempty"`
	Date        *string `json:"date,omitempty"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
	Featured    *bool   `json:"featured,omitempty"`
	Published   *bool   `json:"published,omitempty"`
	Order       *int    `json:"order,omitempty"`
}

// Apply merges the present fields into p. The project id is never changed,
// a new title does not re-slug.
func (patch ProjectPatch) Apply(p *Project) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Client != nil {
		p.Client = *patch.Client
	}
	if patch.Date != nil {
		p.Date = *patch.Date
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	if patch.Published != nil {
		p.Published = *patch.Published
	}
	if patch.Order != nil {
		order := *patch.Order
		p.Order = &order
	}
}

// OrderItem assigns an order value to a project or a media item.
type OrderItem struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// FeaturedItem is one entry of the public highlight reel.
type FeaturedItem struct {
	Type         MediaType `json:"type"`
	URL          string    `json:"url"`
	Alt          string    `json:"alt"`
	ProjectID    string    `json:"project_id"`
	ProjectTitle string    `json:"project_title"`
}
