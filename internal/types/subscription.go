package types

// Subscription is a follower edge from a user to an author. The pair is
// unique and a user can never follow themselves; both rules are enforced
// in the database as well as at write time, since ORM-level checks can be
// bypassed by bulk operations.
type Subscription struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_subscription_user_author;column:user_id" json:"user_id"`
	AuthorID uint `gorm:"not null;uniqueIndex:idx_subscription_user_author;column:author_id" json:"author_id"`

	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Subscription) TableName() string {
	return "subscription"
}
