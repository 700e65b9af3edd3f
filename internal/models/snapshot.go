package models

// DataSnapshot is the admin aggregate dump of every collection.
type DataSnapshot struct {
	Users         []User         `json:"users"`
	Articles      []Article      `json:"articles"`
	Comments      []Comment      `json:"comments"`
	Discussions   []Discussion   `json:"discussions"`
	Proposals     []Proposal     `json:"proposals"`
	Contributors  []Contributor  `json:"contributors"`
	Subscribers   []Subscriber   `json:"subscribers"`
	Notifications []Notification `json:"notifications"`
}
