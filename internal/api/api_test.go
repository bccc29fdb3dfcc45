package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/assetdesk/internal/auth"
	"github.com/erazemk/assetdesk/internal/db"
	"github.com/erazemk/assetdesk/internal/model"
	"github.com/erazemk/assetdesk/internal/store"
)

const testJWTSecret = "test-secret"

type testServer struct {
	*httptest.Server
	DB    *sql.DB
	Token string
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	database := db.NewTestDB(t)
	server := httptest.NewServer(LoggingMiddleware(NewRouter(Options{
		DB:        database,
		JWTSecret: testJWTSecret,
		Tenant:    "Acme",
	})))
	t.Cleanup(server.Close)

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = store.CreateUser(context.Background(), database, "admin", string(hash), model.RoleAdmin)
	require.NoError(t, err)

	var login struct {
		Token string `json:"token"`
	}
	code := doRequest(t, "POST", server.URL+"/api/auth/login", "",
		map[string]string{"username": "admin", "password": "password"}, &login)
	require.Equal(t, http.StatusOK, code, "login")
	require.NotEmpty(t, login.Token)

	return &testServer{Server: server, DB: database, Token: login.Token}
}

// do sends an authenticated JSON request and decodes the response into out
// when it is non-nil. It returns the status code.
func (s *testServer) do(t *testing.T, method, path string, body, out any) int {
	t.Helper()
	return doRequest(t, method, s.URL+path, s.Token, body, out)
}

func doRequest(t *testing.T, method, url, token string, body, out any) int {
	t.Helper()

	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(data))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err, "%s %s", method, url)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out), "decoding %s %s", method, url)
	}
	return resp.StatusCode
}

// createMember creates a member through the API.
func (s *testServer) createMember(t *testing.T, fields map[string]string) model.Member {
	t.Helper()
	var member model.Member
	require.Equal(t, http.StatusCreated, s.do(t, "POST", "/api/members", fields, &member))
	return member
}

// createProduct creates a product through the API and returns it.
func (s *testServer) createProduct(t *testing.T, fields map[string]any) model.Product {
	t.Helper()
	var created struct {
		Product model.Product `json:"product"`
	}
	require.Equal(t, http.StatusCreated, s.do(t, "POST", "/api/products", fields, &created))
	return created.Product
}

type checkResult struct {
	Messages []string `json:"messages"`
	HTML     []string `json:"html"`
}

type errorBody struct {
	Error string `json:"error"`
}

func TestLoginEndpoint(t *testing.T) {
	s := setupTestServer(t)

	code := doRequest(t, "POST", s.URL+"/api/auth/login", "", map[string]string{"username": "admin", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, code, "bad password")

	code = doRequest(t, "POST", s.URL+"/api/auth/login", "", map[string]string{"username": "admin"}, nil)
	assert.Equal(t, http.StatusBadRequest, code, "missing password")
}

func TestLogoutRevokesToken(t *testing.T) {
	s := setupTestServer(t)

	require.Equal(t, http.StatusOK, s.do(t, "POST", "/api/auth/logout", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(t, "GET", "/api/members", nil, nil))
}

func TestUnauthenticatedAccess(t *testing.T) {
	s := setupTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, doRequest(t, "GET", s.URL+"/api/products", "", nil, nil))
}

func TestRoleBasedAccess(t *testing.T) {
	s := setupTestServer(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := store.CreateUser(context.Background(), s.DB, "user1", string(hash), model.RoleUser)
	require.NoError(t, err)
	userToken, err := auth.GenerateToken(testJWTSecret, user, "Acme")
	require.NoError(t, err)

	// Regular users read but do not write.
	code := doRequest(t, "POST", s.URL+"/api/members", userToken, map[string]string{
		"firstName": "Test", "email": "test@example.com",
	}, nil)
	assert.Equal(t, http.StatusForbidden, code, "user creating member")
	assert.Equal(t, http.StatusOK, doRequest(t, "GET", s.URL+"/api/members", userToken, nil, nil))
	assert.Equal(t, http.StatusForbidden, doRequest(t, "GET", s.URL+"/api/users", userToken, nil, nil))
}

func TestUserRequestValidation(t *testing.T) {
	s := setupTestServer(t)

	var body errorBody
	code := s.do(t, "POST", "/api/users", map[string]string{
		"username": "eve", "password": "long-enough", "role": "root",
	}, &body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid role", body.Error)

	code = s.do(t, "POST", "/api/users", map[string]string{
		"username": "admin", "password": "long-enough", "role": model.RoleUser,
	}, &body)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "username already exists", body.Error)
}

func TestRequestIDHeader(t *testing.T) {
	s := setupTestServer(t)

	req, err := http.NewRequest("GET", s.URL+"/api/members", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+s.Token)
	req.Header.Set(RequestIDHeader, "req-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get(RequestIDHeader))

	resp, err = http.Get(s.URL + "/api/members")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader), "generated when absent")
}

func TestMemberValidation(t *testing.T) {
	s := setupTestServer(t)

	var body errorBody
	code := s.do(t, "POST", "/api/members", map[string]string{"firstName": "Ana", "email": "not-an-email"}, &body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid email", body.Error)
}

func TestCreateMemberErrors(t *testing.T) {
	s := setupTestServer(t)
	s.createMember(t, map[string]string{"firstName": "Ana", "email": "ana@example.com"})

	var body errorBody
	code := s.do(t, "POST", "/api/members", map[string]string{"firstName": "Ana", "email": "ana@example.com"}, &body)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "member with this email already exists", body.Error)

	_, err := s.DB.Exec(`CREATE TRIGGER reject_member BEFORE INSERT ON members
		BEGIN SELECT RAISE(ABORT, 'insert rejected'); END`)
	require.NoError(t, err)

	code = s.do(t, "POST", "/api/members", map[string]string{"firstName": "Bor", "email": "bor@example.com"}, &body)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "failed to create member", body.Error)
}

func TestUpdateMember(t *testing.T) {
	s := setupTestServer(t)
	member := s.createMember(t, map[string]string{"firstName": "Ana", "email": "ana@example.com"})
	path := "/api/members/" + itoa(member.ID)

	var updated model.Member
	code := s.do(t, "PUT", path, map[string]string{"firstName": "Ana", "city": "Koper"}, &updated)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Koper", updated.City)
	assert.Equal(t, "ana@example.com", updated.Email)

	// The member disappears while it is being updated.
	_, err := s.DB.Exec(`CREATE TRIGGER drop_member AFTER UPDATE ON members
		BEGIN DELETE FROM members WHERE id = NEW.id; END`)
	require.NoError(t, err)

	var body errorBody
	code = s.do(t, "PUT", path, map[string]string{"firstName": "Ana", "city": "Piran"}, &body)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "member not found", body.Error)
}

func TestProductRequestValidation(t *testing.T) {
	s := setupTestServer(t)

	var body errorBody
	code := s.do(t, "POST", "/api/products", map[string]any{
		"name":       "Laptop",
		"noneOption": model.LocationWarehouse,
		"attributes": []map[string]string{{"key": "brand", "value": "Dell"}, {"key": "brand", "value": "HP"}},
	}, &body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "duplicate attributes", body.Error)

	code = s.do(t, "POST", "/api/products", map[string]any{
		"name": "Laptop", "noneOption": model.LocationWarehouse, "status": "Lost",
	}, &body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid status", body.Error)

	p := s.createProduct(t, map[string]any{
		"name": "Laptop", "noneOption": model.LocationWarehouse, "status": model.ProductStatusDeprecated,
	})
	assert.Equal(t, model.ProductStatusDeprecated, p.Status)
}

func TestProductGoneDuringUpdate(t *testing.T) {
	s := setupTestServer(t)
	p := s.createProduct(t, map[string]any{"name": "Phone", "noneOption": model.LocationWarehouse})

	// Deleted between the handler's lookup and the store update.
	_, err := s.DB.Exec(`UPDATE products SET deleted_at = CURRENT_TIMESTAMP WHERE id = ?`, p.ID)
	require.NoError(t, err)

	_, err = store.UpdateProduct(context.Background(), s.DB, &p, nil)
	require.ErrorIs(t, err, store.ErrNotFound)

	rec := httptest.NewRecorder()
	storeFailure(rec, err, "update", "product")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"product not found"}`, rec.Body.String())
}

func TestRelocationFlow(t *testing.T) {
	s := setupTestServer(t)

	// Office without a state; member with only a name.
	require.Equal(t, http.StatusOK, s.do(t, "PUT", "/api/offices/default", map[string]string{
		"name": "Acme HQ", "phone": "123", "country": "Slovenia", "city": "Ljubljana",
		"zipCode": "1000", "address": "Main 1",
	}, nil))

	member := s.createMember(t, map[string]string{
		"firstName": "Ana", "lastName": "Novak", "email": "ana@example.com", "phone": "555",
	})

	var created struct {
		Product  model.Product `json:"product"`
		Messages []string      `json:"messages"`
	}
	require.Equal(t, http.StatusCreated, s.do(t, "POST", "/api/products", map[string]any{
		"name": "Laptop", "noneOption": model.LocationWarehouse,
	}, &created))
	require.Equal(t, model.LocationWarehouse, created.Product.Location)
	require.Empty(t, created.Messages)
	path := "/api/products/" + itoa(created.Product.ID)

	// Dry run first.
	var check checkResult
	s.do(t, "POST", "/api/validations/relocation", map[string]any{
		"productId": created.Product.ID, "memberId": member.ID,
	}, &check)
	require.Equal(t, []string{
		"Assigned member (Ana Novak) is missing: Personal Email, Dni, Country, City, Zip Code, Address",
	}, check.Messages)
	require.Len(t, check.HTML, 1)
	assert.Regexp(t, `^<strong>Assigned member</strong> \(<strong>Ana Novak</strong>\)`, check.HTML[0])

	// Assign to the member.
	var moved struct {
		Product  model.Product `json:"product"`
		Messages []string      `json:"messages"`
	}
	require.Equal(t, http.StatusOK, s.do(t, "POST", path+"/relocate", map[string]any{"memberId": member.ID}, &moved))
	assert.Equal(t, "ana@example.com", moved.Product.AssignedEmail)
	assert.Equal(t, model.ProductStatusDelivered, moved.Product.Status)
	assert.Len(t, moved.Messages, 1)

	// Return to the office: both sides are incomplete, source first.
	require.Equal(t, http.StatusOK, s.do(t, "POST", path+"/relocate", map[string]any{"noneOption": model.LocationOffice}, &moved))
	require.Len(t, moved.Messages, 2)
	assert.Regexp(t, `^Current holder \(Ana Novak\) is missing:`, moved.Messages[0])
	assert.Equal(t, "Assigned location (Our office) is missing: State", moved.Messages[1])
	assert.Empty(t, moved.Product.AssignedEmail)
	assert.Equal(t, model.LocationOffice, moved.Product.Location)

	// History shows the moves, newest first.
	var history []model.Activity
	require.Equal(t, http.StatusOK, s.do(t, "GET", path+"/history", nil, &history))
	require.Len(t, history, 3)
	assert.Contains(t, history[0].Changes, model.Change{
		Field: "location", OldValue: model.LocationEmployee, NewValue: model.LocationOffice,
	})
}

func TestRelocateRequiresDestination(t *testing.T) {
	s := setupTestServer(t)
	p := s.createProduct(t, map[string]any{"name": "Phone", "noneOption": model.LocationWarehouse})
	path := "/api/products/" + itoa(p.ID) + "/relocate"

	assert.Equal(t, http.StatusBadRequest, s.do(t, "POST", path, map[string]any{}, nil), "no destination")
	assert.Equal(t, http.StatusBadRequest, s.do(t, "POST", path, map[string]any{"noneOption": "Mars"}, nil), "unknown location")
	assert.Equal(t, http.StatusNotFound, s.do(t, "POST", "/api/products/999/relocate",
		map[string]any{"noneOption": model.LocationOffice}, nil))
}

func TestCreateCheck(t *testing.T) {
	s := setupTestServer(t)

	var check checkResult
	s.do(t, "POST", "/api/validations/create", map[string]any{"noneOption": model.LocationWarehouse}, &check)
	assert.Empty(t, check.Messages, "warehouse is never checked")

	// No default office configured.
	s.do(t, "POST", "/api/validations/create", map[string]any{"noneOption": model.LocationOffice}, &check)
	assert.Equal(t, []string{"Assigned location (Our office) is missing: office data unavailable"}, check.Messages)
}

func TestOffboardMember(t *testing.T) {
	s := setupTestServer(t)

	member := s.createMember(t, map[string]string{"firstName": "Bor", "email": "bor@example.com"})
	for _, name := range []string{"Laptop", "Monitor"} {
		s.createProduct(t, map[string]any{"name": name, "memberId": member.ID})
	}

	var resp struct {
		Products []model.Product `json:"products"`
		Messages []string        `json:"messages"`
	}
	code := s.do(t, "POST", "/api/members/"+itoa(member.ID)+"/offboard", map[string]string{
		"noneOption": model.LocationWarehouse,
	}, &resp)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, resp.Products, 2)
	for _, p := range resp.Products {
		assert.Equal(t, model.LocationWarehouse, p.Location)
		assert.Empty(t, p.AssignedEmail)
	}
	require.Len(t, resp.Messages, 1)
	assert.Regexp(t, `^Current holder \(Bor\) is missing:`, resp.Messages[0])

	assert.Equal(t, http.StatusNotFound, s.do(t, "GET", "/api/members/"+itoa(member.ID), nil, nil))
}

func TestOffboardMemberIsAllOrNothing(t *testing.T) {
	s := setupTestServer(t)

	member := s.createMember(t, map[string]string{"firstName": "Bor", "email": "bor@example.com"})
	first := s.createProduct(t, map[string]any{"name": "A laptop", "memberId": member.ID})
	second := s.createProduct(t, map[string]any{"name": "B monitor", "memberId": member.ID})

	_, err := s.DB.Exec(fmt.Sprintf(`CREATE TRIGGER reject_move BEFORE UPDATE OF location ON products
		WHEN OLD.id = %d BEGIN SELECT RAISE(ABORT, 'move rejected'); END`, second.ID))
	require.NoError(t, err)

	code := s.do(t, "POST", "/api/members/"+itoa(member.ID)+"/offboard", map[string]string{
		"noneOption": model.LocationWarehouse,
	}, nil)
	require.Equal(t, http.StatusInternalServerError, code)

	var got model.Product
	require.Equal(t, http.StatusOK, s.do(t, "GET", "/api/products/"+itoa(first.ID), nil, &got))
	assert.Equal(t, model.LocationEmployee, got.Location, "first product stays with the member")
	assert.Equal(t, "bor@example.com", got.AssignedEmail)

	assert.Equal(t, http.StatusOK, s.do(t, "GET", "/api/members/"+itoa(member.ID), nil, nil), "member stays active")
}

func TestShipmentHistory(t *testing.T) {
	s := setupTestServer(t)

	shipment := map[string]any{
		"order_id":        "ORD-7",
		"shipment_status": model.ShipmentStatusInPreparation,
		"price":           map[string]any{"amount": "10", "currencyCode": "USD"},
		"snapshots":       []map[string]string{{"name": "Laptop", "status": "In Transit"}},
	}
	var created model.Shipment
	require.Equal(t, http.StatusCreated, s.do(t, "POST", "/api/shipments", shipment, &created))

	shipment["shipment_status"] = model.ShipmentStatusOnTheWay
	shipment["price"] = map[string]any{"amount": "12.5", "currencyCode": "USD"}
	path := "/api/shipments/" + itoa(created.ID)
	require.Equal(t, http.StatusOK, s.do(t, "PUT", path, shipment, nil))

	var history []model.Activity
	require.Equal(t, http.StatusOK, s.do(t, "GET", path+"/history", nil, &history))
	require.Len(t, history, 2)

	got := map[string]model.Change{}
	for _, c := range history[0].Changes {
		got[c.Field] = c
	}
	assert.Equal(t, model.Change{
		Field: "Shipment Status", OldValue: model.ShipmentStatusInPreparation, NewValue: model.ShipmentStatusOnTheWay,
	}, got["Shipment Status"])
	assert.Equal(t, model.Change{Field: "Price", OldValue: "10 USD", NewValue: "12.5 USD"}, got["Price"])
	assert.NotContains(t, got, "updatedAt")

	assert.Equal(t, http.StatusNotFound, s.do(t, "PUT", "/api/shipments/999", shipment, nil))
}

func TestChangesEndpoint(t *testing.T) {
	s := setupTestServer(t)

	var out []model.Change
	code := s.do(t, "POST", "/api/changes/assets", map[string]any{
		"oldData": map[string]any{"name": "Old", "serialNumber": ""},
		"newData": map[string]any{"name": "New"},
	}, &out)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []model.Change{{Field: "name", OldValue: "Old", NewValue: "New"}}, out)

	code = s.do(t, "POST", "/api/changes/shipments", map[string]any{
		"oldData": []int{1},
		"newData": map[string]any{},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, code, "non-object snapshot")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
