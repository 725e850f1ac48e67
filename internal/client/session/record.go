package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Well-known profile fields. Everything else the server sends is kept in
// UserProfile.Extra.
const (
	fieldStudentID = "studentId"
	fieldName      = "name"
	fieldEmail     = "email"
)

// UserProfile is the user record stored alongside the token. It serialises
// to one flat JSON object; unknown fields survive a round trip unchanged.
type UserProfile struct {
	StudentID string
	Name      string
	Email     string
	Extra     map[string]json.RawMessage
}

// DisplayName is the name used to greet the user.
func (p *UserProfile) DisplayName() string {
	if p == nil || p.StudentID == "" {
		return "Student"
	}
	return p.StudentID
}

// Clone returns a deep copy of p. Clone of nil is nil.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	if p.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(p.Extra))
		for k, v := range p.Extra {
			c.Extra[k] = slices.Clone(v)
		}
	}
	return &c
}

func (p UserProfile) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extra)+3)
	for k, v := range p.Extra {
		m[k] = v
	}

	m[fieldStudentID] = p.StudentID
	if p.Name != "" {
		m[fieldName] = p.Name
	}
	if p.Email != "" {
		m[fieldEmail] = p.Email
	}

	return json.Marshal(m)
}

func (p *UserProfile) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%w: not an object", ErrInvalidProfile)
	}

	var out UserProfile
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{fieldStudentID, &out.StudentID},
		{fieldName, &out.Name},
		{fieldEmail, &out.Email},
	} {
		raw, ok := m[f.name]
		if !ok {
			continue
		}
		s, err := scalarString(raw)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidProfile, f.name, err)
		}
		*f.dst = s
		delete(m, f.name)
	}

	if len(m) > 0 {
		out.Extra = maps.Clone(m)
	}

	*p = out
	return nil
}

// scalarString accepts a JSON string or number; student numbers come back
// from the server as either.
func scalarString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", fmt.Errorf("want string or number, got %s", raw)
	}
	return n.String(), nil
}

// Record is the persisted session as read back by Load.
type Record struct {
	Token   string
	Profile *UserProfile

	// Partial is set when a non-atomic save did not finish: the record is
	// not trustworthy regardless of which fields are present.
	Partial bool
}

// Complete reports whether both token and profile are present.
func (r Record) Complete() bool {
	return r.Token != "" && r.Profile != nil
}

// Orphaned reports whether exactly one of token and profile is present.
func (r Record) Orphaned() bool {
	return (r.Token != "") != (r.Profile != nil)
}
