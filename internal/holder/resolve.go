package holder

import (
	"log/slog"
	"strings"

	"github.com/erazemk/assetdesk/internal/model"
)

// Entities are the holders on both sides of a relocation. Either side may be nil
// when it cannot be determined; nil sides are not validated.
type Entities struct {
	Source      *Ref `json:"source"`
	Destination *Ref `json:"destination"`
}

// Resolve determines the current holder of product and the holder it is moving to.
//
// The destination is the selected member if any, otherwise the location named by
// noneOption. The session user supplies the office details for office holders.
func Resolve(product *model.Product, members []model.Member, selected *model.Member, session model.SessionUser, noneOption string) Entities {
	return Entities{
		Source:      resolveSource(product, members, session),
		Destination: resolveDestination(selected, session, noneOption),
	}
}

func resolveSource(product *model.Product, members []model.Member, session model.SessionUser) *Ref {
	if product.AssignedEmail != "" {
		for i := range members {
			if members[i].Email == product.AssignedEmail {
				m := members[i]
				return MemberRef(&m)
			}
		}

		slog.Warn("assigned member not found, using product assignment",
			"product", product.ID, "email", product.AssignedEmail)
		return MemberRef(syntheticMember(product))
	}

	switch product.Location {
	case model.LocationWarehouse:
		return WarehouseRef()
	case model.LocationOffice:
		return OfficeRef(session.Office())
	}

	slog.Warn("cannot determine current holder", "product", product.ID, "location", product.Location)
	return nil
}

func resolveDestination(selected *model.Member, session model.SessionUser, noneOption string) *Ref {
	if selected != nil {
		return MemberRef(selected)
	}
	switch noneOption {
	case model.LocationWarehouse:
		return WarehouseRef()
	case model.LocationOffice:
		return OfficeRef(session.Office())
	}
	return nil
}

// syntheticMember builds a member record from the assignment stored on the product.
func syntheticMember(product *model.Product) *model.Member {
	first, last, _ := strings.Cut(strings.TrimSpace(product.AssignedMember), " ")
	return &model.Member{
		FirstName: first,
		LastName:  strings.TrimSpace(last),
		Email:     product.AssignedEmail,
	}
}
