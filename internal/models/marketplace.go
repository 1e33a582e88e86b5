package models

import "time"

// MarketplaceCategory is the closed set of marketplace item categories.
type MarketplaceCategory string

const (
	MarketplaceCategoryClothing    MarketplaceCategory = "clothing"
	MarketplaceCategoryElectronics MarketplaceCategory = "electronics"
	MarketplaceCategoryBooks       MarketplaceCategory = "books"
	MarketplaceCategoryHome        MarketplaceCategory = "home"
	MarketplaceCategorySports      MarketplaceCategory = "sports"
	MarketplaceCategoryOther       MarketplaceCategory = "other"
)

// MarketplaceCategories lists valid categories in display order.
var MarketplaceCategories = []MarketplaceCategory{
	MarketplaceCategoryClothing,
	MarketplaceCategoryElectronics,
	MarketplaceCategoryBooks,
	MarketplaceCategoryHome,
	MarketplaceCategorySports,
	MarketplaceCategoryOther,
}

// ValidMarketplaceCategory reports whether c is a known category.
func ValidMarketplaceCategory(c MarketplaceCategory) bool {
	for _, v := range MarketplaceCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Condition describes the physical state of a marketplace item.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like-new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
)

// Conditions lists valid conditions from best to worst.
var Conditions = []Condition{ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor}

// ValidCondition reports whether c is a known condition.
func ValidCondition(c Condition) bool {
	for _, v := range Conditions {
		if v == c {
			return true
		}
	}
	return false
}

// MarketplaceItem is a listing for sale. Any authenticated user may create
// one; it appears in the public listing once approved by an admin or
// moderator and while still available.
type MarketplaceItem struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	Title       string              `gorm:"size:200;not null" json:"title"`
	Description string              `gorm:"type:text;not null" json:"description"`
	Price       float64             `gorm:"not null" json:"price"`
	Currency    string              `gorm:"size:3;default:'USD'" json:"currency"`
	Category    MarketplaceCategory `gorm:"type:varchar(30);not null;index" json:"category"`
	Condition   Condition           `gorm:"type:varchar(20);not null" json:"condition"`
	SellerID    uint                `gorm:"not null;index" json:"sellerId"`
	SellerName  string              `gorm:"not null" json:"sellerName"`
	Images      []string            `gorm:"serializer:json" json:"images"`
	Location    string              `json:"location"`
	IsAvailable bool                `gorm:"default:true;index" json:"isAvailable"`
	IsApproved  bool                `gorm:"default:false;index" json:"isApproved"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}
