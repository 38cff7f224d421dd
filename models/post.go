package models

import "time"

// Post belongs to exactly one author for its whole lifetime. CreatedAt and
// AuthorID are create-only columns.
type Post struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Title     string    `json:"title" gorm:"size:200;not null"`
	Body      string    `json:"body" gorm:"size:1000;not null"`
	Image     *string   `json:"image" gorm:"size:200"`
	AuthorID  uint      `json:"author_id" gorm:"<-:create;not null;index"`
	Author    User      `json:"author" gorm:"foreignKey:AuthorID"`
	Tags      []Tag     `json:"tags" gorm:"many2many:post_tags;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at" gorm:"<-:create"`
}

// TagNames returns the names of the post's tags in association order.
func (p Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}
