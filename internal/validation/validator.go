// Package validation checks that the holders on both sides of a product
// relocation have the contact data needed to ship to them.
package validation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"

	"github.com/erazemk/assetdesk/internal/holder"
	"github.com/erazemk/assetdesk/internal/model"
)

// Message roles.
const (
	RoleCurrentHolder    = "Current holder"
	RoleAssignedMember   = "Assigned member"
	RoleAssignedLocation = "Assigned location"
)

// ErrOfficeUnavailable is returned when no default office is configured.
var ErrOfficeUnavailable = errors.New("office data unavailable")

// OfficeSource provides the tenant's default office record.
type OfficeSource interface {
	DefaultOffice(ctx context.Context) (*model.Office, error)
}

// Validator produces missing-field messages for relocation holders.
type Validator struct {
	offices  OfficeSource
	validate *validator.Validate
}

// New creates a Validator that checks office holders against offices.
func New(offices OfficeSource) *Validator {
	return &Validator{
		offices:  offices,
		validate: validator.New(),
	}
}

// AfterAction validates the source and destination of a relocation. Messages
// for the source come first. Both sides are checked even if one fails; nil
// sides are skipped.
func (v *Validator) AfterAction(ctx context.Context, source, destination *holder.Ref) []string {
	var messages []string

	if source != nil {
		if msg, ok := v.check(ctx, source, RoleCurrentHolder); !ok {
			messages = append(messages, msg)
		}
	}

	if destination != nil {
		role := RoleAssignedLocation
		if destination.Kind == holder.KindMember {
			role = RoleAssignedMember
		}
		if msg, ok := v.check(ctx, destination, role); !ok {
			messages = append(messages, msg)
		}
	}

	recordValidation("after_action", len(messages))
	return messages
}

// OnCreate validates the holder chosen when a product is created. Products
// created into the warehouse are never checked.
func (v *Validator) OnCreate(ctx context.Context, selected *model.Member, noneOption string) []string {
	if noneOption == model.LocationWarehouse {
		recordValidation("on_create", 0)
		return nil
	}

	var ref *holder.Ref
	role := RoleAssignedLocation
	switch {
	case selected != nil:
		ref = holder.MemberRef(selected)
		role = RoleAssignedMember
	case noneOption == model.LocationOffice:
		ref = holder.OfficeRef(&model.Office{Location: model.LocationOffice})
	default:
		recordValidation("on_create", 0)
		return nil
	}

	var messages []string
	if msg, ok := v.check(ctx, ref, role); !ok {
		messages = append(messages, msg)
	}
	recordValidation("on_create", len(messages))
	return messages
}

// check returns the message for ref and false if ref is missing data.
// Errors count as missing data.
func (v *Validator) check(ctx context.Context, ref *holder.Ref, role string) (string, bool) {
	missing, err := v.missing(ctx, ref)
	if err != nil {
		slog.Error("holder validation failed", "role", role, "holder", ref.Label(), "error", err)
		missingMessages.WithLabelValues(role).Inc()
		return formatMessage(role, ref.Label(), ErrOfficeUnavailable.Error()), false
	}
	if len(missing) == 0 {
		return "", true
	}

	names := make([]string, len(missing))
	for i, f := range missing {
		names[i] = Humanize(f)
	}
	missingMessages.WithLabelValues(role).Inc()
	return formatMessage(role, ref.Label(), strings.Join(names, ", ")), false
}

func (v *Validator) missing(ctx context.Context, ref *holder.Ref) ([]string, error) {
	switch ref.Kind {
	case holder.KindWarehouse:
		return nil, nil
	case holder.KindMember:
		return v.missingFields(ref.Member.Field, model.MemberRequiredFields), nil
	case holder.KindOffice:
		if ref.Office.Location != model.LocationOffice {
			return nil, nil
		}
		// The tenant's default office decides, not the snapshot on the ref.
		office, err := v.offices.DefaultOffice(ctx)
		if err != nil {
			officeFetchErrors.Inc()
			return nil, errors.Wrap(err, "fetching default office")
		}
		if office == nil {
			return nil, ErrOfficeUnavailable
		}
		return v.missingFields(office.Field, model.OfficeRequiredFields), nil
	}
	return nil, errors.Errorf("unknown holder kind %s", ref.Kind)
}

// missingFields returns the required fields without a value, in required order.
func (v *Validator) missingFields(get func(string) string, required []string) []string {
	var missing []string
	for _, field := range required {
		if err := v.validate.Var(get(field), "required"); err != nil {
			missing = append(missing, field)
		}
	}
	return missing
}

func formatMessage(role, label, fields string) string {
	return fmt.Sprintf("%s (%s) is missing: %s", role, label, fields)
}
