package models

import "time"

type Testimonial struct {
	ID        string    `json:"id" firestore:"id"`
	Author    string    `json:"author" firestore:"author"`
	Text      string    `json:"text" firestore:"text"`
	Rating    int       `json:"rating" firestore:"rating"`
	Approved  bool      `json:"approved" firestore:"approved"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
}

func (t Testimonial) DocumentID() string { return t.ID }

type BlogPost struct {
	ID          string     `json:"id" firestore:"id"`
	Title       string     `json:"title" firestore:"title"`
	Slug        string     `json:"slug" firestore:"slug"`
	Excerpt     string     `json:"excerpt" firestore:"excerpt"`
	Body        string     `json:"body" firestore:"body"`
	CoverImage  string     `json:"cover_image" firestore:"cover_image"`
	Published   bool       `json:"published" firestore:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty" firestore:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" firestore:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" firestore:"updated_at"`
}

func (b BlogPost) DocumentID() string { return b.ID }

// SiteConfigID is the id of the single site configuration document.
const SiteConfigID = "main"

type SiteConfig struct {
	ID            string    `json:"id" firestore:"id"`
	StoreName     string    `json:"store_name" firestore:"store_name"`
	Phone         string    `json:"phone" firestore:"phone"`
	WhatsApp      string    `json:"whatsapp" firestore:"whatsapp"`
	Email         string    `json:"email" firestore:"email"`
	Address       string    `json:"address" firestore:"address"`
	OpeningHours  string    `json:"opening_hours" firestore:"opening_hours"`
	HeroTitle     string    `json:"hero_title" firestore:"hero_title"`
	HeroSubtitle  string    `json:"hero_subtitle" firestore:"hero_subtitle"`
	Announcement  string    `json:"announcement,omitempty" firestore:"announcement,omitempty"`
	ClosedWeekday *int      `json:"closed_weekday,omitempty" firestore:"closed_weekday,omitempty"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updated_at"`
}

func (s SiteConfig) DocumentID() string { return SiteConfigID }
