package domain

import "time"

// User is a gestionnaire account as the auth endpoints return it.
// The login response spreads these fields next to access_token.
type User struct {
	ID        string    `json:"id,omitempty"`
	MongoID   string    `json:"_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Nom       string    `json:"nom,omitempty"`
	Prenom    string    `json:"prenom,omitempty"`
	Email     string    `json:"email,omitempty"`
	Telephone string    `json:"telephone,omitempty"`
	Country   string    `json:"country,omitempty"`
	CompanyID string    `json:"companyId,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// ObjectID returns the user identifier, whichever field the API filled.
func (u User) ObjectID() string {
	if u.ID != "" {
		return u.ID
	}
	return u.MongoID
}

// DisplayName returns the best human-readable name available.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Prenom != "" || u.Nom != "" {
		switch {
		case u.Prenom == "":
			return u.Nom
		case u.Nom == "":
			return u.Prenom
		}
		return u.Prenom + " " + u.Nom
	}
	return u.Email
}
