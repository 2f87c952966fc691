package handler_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"demographics/internal/person/handler"
	"demographics/internal/person/models"
	"demographics/internal/person/service"
	addressStore "demographics/internal/person/store/address"
	attributeStore "demographics/internal/person/store/attribute"
	attributeTypeStore "demographics/internal/person/store/attributetype"
	nameStore "demographics/internal/person/store/name"
	personStore "demographics/internal/person/store/person"
	id "demographics/pkg/domain"
	"demographics/pkg/platform/middleware/actor"
	"demographics/pkg/platform/tx"
	"demographics/pkg/testutil"
)

// HandlerSuite drives the router over the real service and in-memory stores.
type HandlerSuite struct {
	suite.Suite
	router  http.Handler
	actorID string
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.New(service.Stores{
		Persons:        personStore.NewInMemory(),
		Names:          nameStore.NewInMemory(),
		Addresses:      addressStore.NewInMemory(),
		Attributes:     attributeStore.NewInMemory(),
		AttributeTypes: attributeTypeStore.NewInMemory(),
	}, tx.NewShardedRunner(time.Second), service.WithLogger(logger))
	s.Require().NoError(err)

	r := chi.NewRouter()
	r.Use(actor.Extract(logger))
	handler.New(svc, logger).Register(r)
	s.router = r
	s.actorID = uuid.NewString()
}

func (s *HandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = testutil.NewJSONRequest(s.T(), method, path, body)
	} else {
		req = testutil.NewRequest(s.T(), method, path)
	}
	req.Header.Set(actor.Header, s.actorID)
	return testutil.DoRequest(s.router, req)
}

func (s *HandlerSuite) createPerson(body map[string]any) handler.PersonResponse {
	rr := s.do(http.MethodPost, "/persons", body)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	return *testutil.UnmarshalResponse[handler.PersonResponse](s.T(), rr)
}

func (s *HandlerSuite) TestCreatePerson() {
	s.Run("first name becomes preferred", func() {
		resp := s.createPerson(map[string]any{
			"gender":     "F",
			"birth_date": "1990-04-12",
			"names": []map[string]any{
				{"first_name": "Achieng", "last_name": "Odhiambo"},
				{"first_name": "Acha"},
			},
		})
		s.Require().Len(resp.Names, 2)
		s.True(resp.Names[0].Preferred)
		s.False(resp.Names[1].Preferred)
		s.Equal("Achieng Odhiambo", resp.PreferredName)
		s.Equal(models.GenderFemale, resp.Gender)
	})

	s.Run("missing actor is rejected", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/persons", map[string]any{"gender": "M"})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("malformed actor header", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/persons", map[string]any{"gender": "M"})
		req.Header.Set(actor.Header, "not-a-uuid")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("unknown field", func() {
		rr := s.do(http.MethodPost, "/persons", map[string]any{"gender": "M", "nickname": "x"})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("nested validation names the field", func() {
		rr := s.do(http.MethodPost, "/persons", map[string]any{
			"gender": "M",
			"names":  []map[string]any{{"last_name": "Kamau"}},
		})
		s.Equal(http.StatusBadRequest, rr.Code)
		errResp := testutil.UnmarshalErrorResponse(s.T(), rr)
		s.Equal("validation_error", errResp["error"])
		s.Contains(errResp["error_description"], "names[0].first_name is required")
	})

	s.Run("invalid gender", func() {
		rr := s.do(http.MethodPost, "/persons", map[string]any{"gender": "X"})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("bad birth date format", func() {
		rr := s.do(http.MethodPost, "/persons", map[string]any{"gender": "M", "birth_date": "12/04/1990"})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("malformed body", func() {
		req := testutil.NewRawRequest(s.T(), http.MethodPost, "/persons", `{"gender":`)
		req.Header.Set(actor.Header, s.actorID)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *HandlerSuite) TestGetPerson() {
	created := s.createPerson(map[string]any{"gender": "M"})

	s.Run("found", func() {
		rr := s.do(http.MethodGet, "/persons/"+created.ID.String(), nil)
		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("unknown id", func() {
		rr := s.do(http.MethodGet, "/persons/"+uuid.NewString(), nil)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("invalid id", func() {
		rr := s.do(http.MethodGet, "/persons/abc", nil)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("invalid include_voided", func() {
		rr := s.do(http.MethodGet, "/persons/"+created.ID.String()+"?include_voided=maybe", nil)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *HandlerSuite) TestVoidPerson() {
	created := s.createPerson(map[string]any{"gender": "M"})
	path := "/persons/" + created.ID.String()

	rr := s.do(http.MethodPost, path+"/void", map[string]any{"void_reason": "duplicate"})
	s.Require().Equal(http.StatusOK, rr.Code)
	first := testutil.UnmarshalResponse[models.VoidResult](s.T(), rr)
	s.True(first.Voided)
	s.False(first.AlreadyVoided)

	rr = s.do(http.MethodPost, path+"/void", map[string]any{"void_reason": "again"})
	s.Require().Equal(http.StatusOK, rr.Code)
	second := testutil.UnmarshalResponse[models.VoidResult](s.T(), rr)
	s.True(second.AlreadyVoided)
	s.Equal("duplicate", second.VoidReason)

	rr = s.do(http.MethodGet, path, nil)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")

	rr = s.do(http.MethodGet, path+"?include_voided=true", nil)
	testutil.AssertStatusOK(s.T(), rr)

	rr = s.do(http.MethodPost, path+"/void", map[string]any{"void_reason": "   "})
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
}

func (s *HandlerSuite) TestUpdatePerson() {
	created := s.createPerson(map[string]any{"gender": "M"})
	path := "/persons/" + created.ID.String()

	rr := s.do(http.MethodPatch, path, map[string]any{"dead": true, "death_date": "2020-01-01"})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	person := testutil.UnmarshalResponse[models.Person](s.T(), rr)
	s.True(person.Dead)

	rr = s.do(http.MethodPatch, path, map[string]any{})
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
}

func (s *HandlerSuite) TestNames() {
	created := s.createPerson(map[string]any{"gender": "F", "names": []map[string]any{{"first_name": "Wanjiru"}}})
	path := "/persons/" + created.ID.String() + "/names"
	firstID := created.Names[0].ID.String()

	rr := s.do(http.MethodPost, path, map[string]any{"first_name": "Shiru", "preferred": true})
	s.Require().Equal(http.StatusCreated, rr.Code)
	added := testutil.UnmarshalResponse[models.PersonName](s.T(), rr)
	s.True(added.Preferred)

	rr = s.do(http.MethodGet, path+"/preferred", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	preferred := testutil.UnmarshalResponse[models.PersonName](s.T(), rr)
	s.Equal(added.ID, preferred.ID)

	s.Run("voiding the preferred name conflicts", func() {
		rr := s.do(http.MethodPost, path+"/"+added.ID.String()+"/void", map[string]any{"void_reason": "typo"})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	})

	s.Run("void a non-preferred name twice", func() {
		rr := s.do(http.MethodPost, path+"/"+firstID+"/void", map[string]any{"void_reason": "old"})
		testutil.AssertStatusOK(s.T(), rr)

		rr = s.do(http.MethodPost, path+"/"+firstID+"/void", map[string]any{"void_reason": "retyped"})
		testutil.AssertStatusOK(s.T(), rr)
		again := testutil.UnmarshalResponse[models.PersonName](s.T(), rr)
		s.True(again.Voided)
		s.Equal("old", again.VoidReason)
	})

	s.Run("list honours include_voided", func() {
		rr := s.do(http.MethodGet, path, nil)
		s.Require().Equal(http.StatusOK, rr.Code)
		s.Len(testutil.UnmarshalResponse[handler.ListNamesResponse](s.T(), rr).Names, 1)

		rr = s.do(http.MethodGet, path+"?include_voided=true", nil)
		s.Require().Equal(http.StatusOK, rr.Code)
		s.Len(testutil.UnmarshalResponse[handler.ListNamesResponse](s.T(), rr).Names, 2)
	})

	s.Run("unknown name", func() {
		rr := s.do(http.MethodGet, path+"/"+uuid.NewString(), nil)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *HandlerSuite) TestAddresses() {
	created := s.createPerson(map[string]any{"gender": "F"})
	path := "/persons/" + created.ID.String() + "/addresses"

	rr := s.do(http.MethodPost, path, map[string]any{
		"address_line_1": "12 Moi Avenue",
		"location":       map[string]any{"country": "KE", "city": "NBO"},
		"start_date":     "2021-05-01",
	})
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	addr := testutil.UnmarshalResponse[models.PersonAddress](s.T(), rr)
	s.True(addr.Preferred)
	s.Equal("KE", addr.Location.Country.ID)

	rr = s.do(http.MethodPatch, path+"/"+addr.ID.String(), map[string]any{"postal_code": "00100"})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	s.Equal("00100", testutil.UnmarshalResponse[models.PersonAddress](s.T(), rr).PostalCode)

	rr = s.do(http.MethodPost, path, map[string]any{"address_line_1": "x", "start_date": "yesterday"})
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
}

func (s *HandlerSuite) TestAttributeTypesAndAttributes() {
	rr := s.do(http.MethodPost, "/attribute-types", map[string]any{"name": "Phone Number", "format": "text"})
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	phone := testutil.UnmarshalResponse[models.AttributeType](s.T(), rr)

	s.Run("duplicate name conflicts", func() {
		rr := s.do(http.MethodPost, "/attribute-types", map[string]any{"name": "phone number", "format": "text"})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	})

	s.Run("unsupported format", func() {
		rr := s.do(http.MethodPost, "/attribute-types", map[string]any{"name": "Shoe", "format": "xml"})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	created := s.createPerson(map[string]any{"gender": "M"})
	path := "/persons/" + created.ID.String() + "/attributes"

	rr = s.do(http.MethodPost, path, map[string]any{"attribute_type_id": phone.ID.String(), "value": "0700000000"})
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	attr := testutil.UnmarshalResponse[models.PersonAttribute](s.T(), rr)
	s.True(attr.Preferred)

	rr = s.do(http.MethodGet, path+"/preferred/"+phone.ID.String(), nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Equal(attr.ID, testutil.UnmarshalResponse[models.PersonAttribute](s.T(), rr).ID)

	rr = s.do(http.MethodPost, path, map[string]any{"attribute_type_id": uuid.NewString(), "value": "x"})
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")

	rr = s.do(http.MethodGet, "/attribute-types", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Len(testutil.UnmarshalResponse[handler.ListAttributeTypesResponse](s.T(), rr).AttributeTypes, 1)
}

func (s *HandlerSuite) TestListPersons() {
	s.createPerson(map[string]any{"gender": "M"})
	s.createPerson(map[string]any{"gender": "F"})

	rr := s.do(http.MethodGet, "/persons?limit=1", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	resp := testutil.UnmarshalResponse[handler.ListPersonsResponse](s.T(), rr)
	s.Len(resp.Persons, 1)
	s.Equal(1, resp.Limit)

	rr = s.do(http.MethodGet, "/persons?offset=-1", nil)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

func (s *HandlerSuite) TestActorAndClockFromContext() {
	at := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	actorID := id.ActorID(uuid.New())

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/persons", map[string]any{"gender": "U"})
	req = testutil.WithRequestTime(testutil.WithActor(req, actorID), at)
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())

	resp := testutil.UnmarshalResponse[handler.PersonResponse](s.T(), rr)
	s.Equal(actorID, resp.CreatedBy)
	s.True(at.Equal(resp.CreatedAt))
}
