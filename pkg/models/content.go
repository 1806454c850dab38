package models

type Article struct {
	Base
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Summary     string   `json:"summary"`
	Body        string   `json:"body"`
	ImageURL    string   `json:"image_url"`
	Author      string   `json:"author"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	ReadingTime string   `json:"reading_time"`
	Published   bool     `json:"published"`
	Featured    bool     `json:"featured"`
}

type HeroBanner struct {
	Base
	Title      string `json:"title" yaml:"title"`
	Subtitle   string `json:"subtitle,omitempty" yaml:"subtitle"`
	ImageURL   string `json:"image_url" yaml:"image_url"`
	Link       string `json:"link,omitempty" yaml:"link"`
	ButtonText string `json:"button_text,omitempty" yaml:"button_text"`
	Active     bool   `json:"active" yaml:"active"`
	Order      int    `json:"order" yaml:"order"`
}
