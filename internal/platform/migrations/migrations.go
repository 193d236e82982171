package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Both order store
// backends (GORM and raw SQL) read and write the tables defined here, so
// this is the single place the relational shape lives.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&userRecord{},
		&productRecord{},
		&orderRecord{},
		&orderItemRecord{},
	)
}

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role;type:varchar(32)"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID          int64             `gorm:"primaryKey;column:id"`
	Name        string            `gorm:"column:name;type:varchar(100)"`
	Description string            `gorm:"column:description"`
	Price       decimal.Decimal   `gorm:"column:price;type:numeric(12,2)"`
	Stock       int32             `gorm:"column:stock"`
	CreatedBy   int64             `gorm:"column:created_by"`
	OrderItems  []orderItemRecord `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	CreatedAt   time.Time         `gorm:"column:created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Order schema mirrors both order store backends. Lines cascade with their
// owning order; products referenced by lines are restrict-deleted.
type orderRecord struct {
	ID        int64             `gorm:"primaryKey;column:id"`
	Number    string            `gorm:"column:number;type:varchar(36);uniqueIndex"`
	UserID    int64             `gorm:"column:user_id;index"`
	PlacedAt  time.Time         `gorm:"column:placed_at"`
	Total     decimal.Decimal   `gorm:"column:total;type:numeric(12,2)"`
	Status    string            `gorm:"column:status;type:varchar(32);index"`
	Lines     []orderItemRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;index"`
	UpdatedAt time.Time         `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id;index"`
	ProductID int64           `gorm:"column:product_id;index"`
	Quantity  int32           `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
}

func (orderItemRecord) TableName() string { return "order_items" }
