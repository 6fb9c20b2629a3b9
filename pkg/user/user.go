package user

type UserType string

const (
	TypeMP            UserType = "mp"
	TypePartyOfficial UserType = "party_official"
	TypeCitizen       UserType = "citizen"
	TypePartyMember   UserType = "party_member"
	TypeMedia         UserType = "media"
	TypeAdmin         UserType = "admin"
)

func (t UserType) Valid() bool {
	switch t {
	case TypeMP, TypePartyOfficial, TypeCitizen, TypePartyMember, TypeMedia, TypeAdmin:
		return true
	}
	return false
}

type User struct {
	Username string   `json:"username" bson:"username"`
	Password []byte   `json:"-" bson:"-"`
	Id       string   `json:"id" bson:"id"`
	FullName string   `json:"full_name" bson:"full_name"`
	UserType UserType `json:"user_type" bson:"user_type"`
	PartyID  string   `json:"party_id,omitempty" bson:"party_id,omitempty"`
	Avatar   string   `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	Verified bool     `json:"is_verified" bson:"is_verified"`
}

// Profile is a user together with follow counters.
type Profile struct {
	*User
	Followers int `json:"follower_count"`
	Following int `json:"following_count"`
}
