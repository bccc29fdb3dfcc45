// Package holder models who holds a product and resolves the current and
// next holder of a product relocation.
package holder

import (
	"encoding/json"
	"fmt"

	"github.com/erazemk/assetdesk/internal/model"
)

// Kind identifies the active variant of a Ref.
type Kind int

const (
	KindMember Kind = iota + 1
	KindOffice
	KindWarehouse
)

func (k Kind) String() string {
	switch k {
	case KindMember:
		return "member"
	case KindOffice:
		return "office"
	case KindWarehouse:
		return "warehouse"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Ref is a holder reference. Exactly one variant is active: Member is set only
// for KindMember and Office only for KindOffice.
type Ref struct {
	Kind   Kind
	Member *model.Member
	Office *model.Office
}

// MemberRef returns a reference to a member holder.
func MemberRef(m *model.Member) *Ref {
	return &Ref{Kind: KindMember, Member: m}
}

// OfficeRef returns a reference to an office holder.
func OfficeRef(o *model.Office) *Ref {
	return &Ref{Kind: KindOffice, Office: o}
}

// WarehouseRef returns a reference to the warehouse.
func WarehouseRef() *Ref {
	return &Ref{Kind: KindWarehouse}
}

// Label is the human-readable name of the holder used in messages. A nil
// reference has no label.
func (r *Ref) Label() string {
	if r == nil {
		return ""
	}
	switch r.Kind {
	case KindMember:
		return r.Member.FullName()
	case KindOffice:
		if r.Office.Location != "" {
			return r.Office.Location
		}
		return model.LocationOffice
	case KindWarehouse:
		return model.LocationWarehouse
	}
	return ""
}

type refJSON struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// MarshalJSON encodes the reference as {"type": ..., "data": ...}.
func (r *Ref) MarshalJSON() ([]byte, error) {
	out := refJSON{Type: r.Kind.String()}
	switch r.Kind {
	case KindMember:
		out.Data = r.Member
	case KindOffice:
		out.Data = r.Office
	case KindWarehouse:
		out.Data = map[string]string{"location": model.LocationWarehouse}
	}
	return json.Marshal(out)
}
