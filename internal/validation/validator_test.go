package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/assetdesk/internal/holder"
	"github.com/erazemk/assetdesk/internal/model"
)

type fakeOffices struct {
	office *model.Office
	err    error
	calls  int
}

func (f *fakeOffices) DefaultOffice(context.Context) (*model.Office, error) {
	f.calls++
	return f.office, f.err
}

func completeOffice() *model.Office {
	return &model.Office{
		Country: "AR", City: "Buenos Aires", State: "CABA",
		ZipCode: "1000", Address: "Calle 1", Phone: "+54 11",
	}
}

func completeMember() *model.Member {
	return &model.Member{
		FirstName: "Ana", LastName: "Gomez", Email: "ana@acme.test",
		PersonalEmail: "ana@mail.test", Phone: "1", DNI: "1",
		Country: "AR", City: "X", ZipCode: "1", Address: "Y",
	}
}

func TestAfterActionWarehouses(t *testing.T) {
	offices := &fakeOffices{err: errors.New("must not be called")}
	v := New(offices)

	got := v.AfterAction(context.Background(), holder.WarehouseRef(), holder.WarehouseRef())

	assert.Empty(t, got)
	assert.Zero(t, offices.calls)
}

func TestAfterActionNilInputs(t *testing.T) {
	v := New(&fakeOffices{})
	assert.Empty(t, v.AfterAction(context.Background(), nil, nil))
}

func TestAfterActionMissingPersonalEmail(t *testing.T) {
	v := New(&fakeOffices{})
	m := completeMember()
	m.PersonalEmail = ""

	got := v.AfterAction(context.Background(), holder.MemberRef(m), nil)

	require.Len(t, got, 1)
	assert.Equal(t, "Current holder (Ana Gomez) is missing: Personal Email", got[0])
}

func TestAfterActionFieldOrder(t *testing.T) {
	v := New(&fakeOffices{})
	m := &model.Member{FirstName: "Ana", Address: "Y", Phone: "1"}

	got := v.AfterAction(context.Background(), nil, holder.MemberRef(m))

	require.Len(t, got, 1)
	assert.Equal(t, "Assigned member (Ana) is missing: Personal Email, Dni, Country, City, Zip Code", got[0])
}

func TestAfterActionSourceBeforeDestination(t *testing.T) {
	offices := &fakeOffices{office: &model.Office{Country: "AR"}}
	v := New(offices)
	m := completeMember()
	m.Phone = ""

	got := v.AfterAction(context.Background(),
		holder.MemberRef(m),
		holder.OfficeRef(&model.Office{Location: model.LocationOffice}))

	require.Len(t, got, 2)
	assert.Equal(t, "Current holder (Ana Gomez) is missing: Phone", got[0])
	assert.Equal(t, "Assigned location (Our office) is missing: City, State, Zip Code, Address, Phone", got[1])
}

func TestAfterActionOfficeUsesDefaultOffice(t *testing.T) {
	offices := &fakeOffices{office: completeOffice()}
	v := New(offices)

	// The snapshot on the ref is empty but the default office is complete.
	got := v.AfterAction(context.Background(), nil, holder.OfficeRef(&model.Office{Location: model.LocationOffice}))

	assert.Empty(t, got)
	assert.Equal(t, 1, offices.calls)
}

func TestAfterActionOfficeWithoutLocationTagSkipped(t *testing.T) {
	offices := &fakeOffices{err: errors.New("must not be called")}
	v := New(offices)

	got := v.AfterAction(context.Background(), holder.OfficeRef(&model.Office{}), nil)

	assert.Empty(t, got)
	assert.Zero(t, offices.calls)
}

func TestAfterActionOfficeFetchFailsClosed(t *testing.T) {
	offices := &fakeOffices{err: errors.New("connection refused")}
	v := New(offices)
	office := holder.OfficeRef(&model.Office{Location: model.LocationOffice})

	got := v.AfterAction(context.Background(), office, office)

	require.Len(t, got, 2)
	assert.Equal(t, "Current holder (Our office) is missing: office data unavailable", got[0])
	assert.Equal(t, "Assigned location (Our office) is missing: office data unavailable", got[1])
	assert.Equal(t, 2, offices.calls)
}

func TestAfterActionNoDefaultOffice(t *testing.T) {
	v := New(&fakeOffices{})

	got := v.AfterAction(context.Background(), nil, holder.OfficeRef(&model.Office{Location: model.LocationOffice}))

	require.Len(t, got, 1)
	assert.Contains(t, got[0], "office data unavailable")
}

func TestOnCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("warehouse skips everything", func(t *testing.T) {
		offices := &fakeOffices{err: errors.New("must not be called")}
		v := New(offices)
		m := completeMember()
		m.DNI = ""
		assert.Empty(t, v.OnCreate(ctx, m, model.LocationWarehouse))
		assert.Zero(t, offices.calls)
	})

	t.Run("selected member", func(t *testing.T) {
		v := New(&fakeOffices{})
		m := completeMember()
		m.ZipCode = ""
		got := v.OnCreate(ctx, m, "")
		require.Len(t, got, 1)
		assert.Equal(t, "Assigned member (Ana Gomez) is missing: Zip Code", got[0])
	})

	t.Run("office", func(t *testing.T) {
		office := completeOffice()
		office.State = ""
		v := New(&fakeOffices{office: office})
		got := v.OnCreate(ctx, nil, model.LocationOffice)
		require.Len(t, got, 1)
		assert.Equal(t, "Assigned location (Our office) is missing: State", got[0])
	})

	t.Run("nothing selected", func(t *testing.T) {
		v := New(&fakeOffices{})
		assert.Empty(t, v.OnCreate(ctx, nil, ""))
	})
}
