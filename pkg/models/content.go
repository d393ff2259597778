package models

import (
	"time"
)

// ManualRevenueKey is the site_content row holding walk-in revenue.
const ManualRevenueKey = "manual_revenue"

type Content struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	Key       string    `gorm:"column:content_key;type:varchar(191);uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Content) TableName() string {
	return "site_content"
}

// DefaultContent is inserted on first start and never overwrites edits.
var DefaultContent = map[string]string{
	"hero_title":          "Señorita",
	"hero_subtitle":       "Made Fresh Daily",
	"hero_description":    "Our mission is to craft the best-tasting bread using traditional methods and the highest-quality ingredients.",
	"special_label":       "Special of the Day",
	"special_discount":    "20% OFF",
	"special_text":        "TODAY",
	"product_name":        "Señorita Bread",
	"product_description": "Our signature soft, sweet bread that's become a Stockton favorite. Perfect for any occasion.",
	"business_hours":      "Tues–Sun: 6AM–6PM<br>Mon: Closed",
	"phone":               "(209) 420-7925",
	"email":               "freshhotbread@gmail.com",
	"location":            "2233 Grand Canal Blvd UNIT 102, Stockton, CA 95207",
}
