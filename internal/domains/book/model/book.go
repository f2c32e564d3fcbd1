package model

import "time"

// Book is the persisted entity. The id is assigned by the store when the
// client does not supply one, and is immutable afterwards. Rows are never
// physically removed; is_deleted marks them invisible to every read.
type Book struct {
	ID          int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"column:title"`
	TitleKana   string    `json:"titleKana" gorm:"column:title_kana"`
	Author      string    `json:"author" gorm:"column:author"`
	PublisherID *int64    `json:"publisherId" gorm:"column:publisher_id"`
	UserID      *int64    `json:"userId" gorm:"column:user_id"`
	Price       *int      `json:"price" gorm:"column:price"`
	IsDeleted   bool      `json:"isDeleted" gorm:"column:is_deleted"`
	CreatedAt   time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// BookView is the read projection: Book columns joined with the referenced
// publisher and user names. The names are null when the referenced row is
// absent or itself soft-deleted. Never persisted.
type BookView struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	TitleKana     string    `json:"titleKana"`
	Author        string    `json:"author"`
	PublisherID   *int64    `json:"publisherId"`
	PublisherName *string   `json:"publisherName"`
	UserID        *int64    `json:"userId"`
	UserName      *string   `json:"userName"`
	Price         *int      `json:"price"`
	IsDeleted     bool      `json:"isDeleted"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
