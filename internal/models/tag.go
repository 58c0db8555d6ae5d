package models

type TagKind string

const (
	TagCategories     TagKind = "categories"
	TagPayees         TagKind = "payees"
	TagPaymentMethods TagKind = "paymentMethods"
	TagStatuses       TagKind = "statuses"
)

var TagKinds = []TagKind{TagCategories, TagPayees, TagPaymentMethods, TagStatuses}

type Tag struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// Tags is the persisted registry, keyed by kind.
type Tags map[TagKind][]Tag

// DefaultTags are seeded the first time the registry is read.
func DefaultTags() Tags {
	return Tags{
		TagCategories: {
			{Name: "Food", Icon: "utensils"},
			{Name: "Transport", Icon: "car"},
			{Name: "Housing", Icon: "home"},
			{Name: "Utilities", Icon: "bolt"},
			{Name: "Entertainment", Icon: "film"},
			{Name: "Health", Icon: "heart"},
			{Name: "Salary", Icon: "briefcase"},
			{Name: "Other", Icon: "tag"},
		},
		TagPayees: {},
		TagPaymentMethods: {
			{Name: "Cash", Icon: "money-bill"},
			{Name: "Credit Card", Icon: "credit-card"},
			{Name: "Debit Card", Icon: "credit-card"},
			{Name: "Bank Transfer", Icon: "building-columns"},
		},
		TagStatuses: {
			{Name: StatusDone, Icon: "check"},
			{Name: StatusPending, Icon: "clock"},
			{Name: StatusInFuture, Icon: "calendar"},
		},
	}
}
