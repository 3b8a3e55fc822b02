package service

import (
	"context"
	"math"
	"strconv"
	"strings"

	"volunteer_map_backend/internal/geocoding"
	"volunteer_map_backend/internal/volunteers/repository"
	"volunteer_map_backend/internal/volunteers/transport"
	"volunteer_map_backend/platform/apperr"
	"volunteer_map_backend/platform/logger"
	"volunteer_map_backend/platform/metrics"
	"volunteer_map_backend/platform/phone"
	"volunteer_map_backend/platform/validator"
)

const (
	msgFieldsRequired      = "all fields are required: name, phone, address"
	msgFieldsInvalid       = "invalid volunteer data"
	msgGeocodingFailed     = "geocoding failed: could not find coordinates for the address"
	msgAddressNotFound     = "address not found"
	msgSearchParamsMissing = "latitude, longitude and radius (or address and radius) are required"
	msgInvalidLatitude     = "latitude must be a number between -90 and 90"
	msgInvalidLongitude    = "longitude must be a number between -180 and 180"
	msgInvalidRadius       = "radius must be a positive number of meters"
	msgStoreFailed         = "failed to access volunteer storage"
)

// Resolver geocodes addresses. The boolean is false when the address could
// not be resolved.
type Resolver interface {
	Resolve(ctx context.Context, address string) (geocoding.Coordinate, bool)
}

// Service provides business logic for volunteers.
type Service struct {
	repo    repository.Repository
	geo     Resolver
	val     *validator.Validator
	phones  *phone.Normalizer
	log     *logger.Logger
	metrics *metrics.Metrics
}

// New creates a new volunteers service. m may be nil.
func New(repo repository.Repository, geo Resolver, val *validator.Validator, phones *phone.Normalizer, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{repo: repo, geo: geo, val: val, phones: phones, log: log, metrics: m}
}

// Create validates the request, geocodes the address and stores the
// volunteer. Name, phone and address are stored exactly as given; blank
// values are rejected. Nothing is written when geocoding fails.
func (s *Service) Create(ctx context.Context, req transport.CreateVolunteerRequest) (transport.VolunteerResponse, error) {
	if err := s.val.Struct(req); err != nil {
		return transport.VolunteerResponse{}, validationError(err)
	}

	location, ok := s.geo.Resolve(ctx, req.Address)
	if !ok {
		return transport.VolunteerResponse{}, apperr.BadRequest(msgGeocodingFailed).
			WithDetails(map[string]string{"address": req.Address})
	}

	params := repository.InsertParams{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		Location: location,
	}
	if e164, ok := s.phones.E164(req.Phone); ok {
		params.PhoneE164 = &e164
	}

	v, err := s.repo.Insert(ctx, params)
	if err != nil {
		return transport.VolunteerResponse{}, s.storeError(ctx, "insert volunteer", err)
	}
	if s.metrics != nil {
		s.metrics.VolunteersCreated.Inc()
	}

	s.log.WithContext(ctx).Info("volunteer created", "id", v.ID,
		"latitude", v.Latitude, "longitude", v.Longitude)
	return toResponse(v), nil
}

// Search finds volunteers within a radius of a center point. The center is
// taken from latitude/longitude, or from geocoding the address when an
// address is given and either coordinate is missing or zero.
func (s *Service) Search(ctx context.Context, req transport.SearchVolunteersRequest) (transport.SearchVolunteersResponse, error) {
	address := trimmed(req.Address)
	rawLat, rawLon, rawRadius := trimmed(req.Latitude), trimmed(req.Longitude), trimmed(req.Radius)

	useAddress := address != "" && (isAbsentOrZero(rawLat) || isAbsentOrZero(rawLon))
	if rawRadius == "" || (!useAddress && (rawLat == "" || rawLon == "")) {
		return transport.SearchVolunteersResponse{}, apperr.Validation(msgSearchParamsMissing)
	}

	radius, err := parseFinite(rawRadius)
	if err != nil || radius <= 0 {
		return transport.SearchVolunteersResponse{}, apperr.Validation(msgInvalidRadius)
	}

	var center geocoding.Coordinate
	if useAddress {
		coord, ok := s.geo.Resolve(ctx, address)
		if !ok {
			return transport.SearchVolunteersResponse{}, apperr.BadRequest(msgAddressNotFound).
				WithDetails(map[string]string{"address": address})
		}
		center = coord
	} else {
		lat, err := parseFinite(rawLat)
		if err != nil || lat < -90 || lat > 90 {
			return transport.SearchVolunteersResponse{}, apperr.Validation(msgInvalidLatitude)
		}
		lon, err := parseFinite(rawLon)
		if err != nil || lon < -180 || lon > 180 {
			return transport.SearchVolunteersResponse{}, apperr.Validation(msgInvalidLongitude)
		}
		center = geocoding.Coordinate{Lat: lat, Lon: lon}
	}

	items, err := s.repo.WithinRadius(ctx, center, radius)
	if err != nil {
		return transport.SearchVolunteersResponse{}, s.storeError(ctx, "search volunteers", err)
	}

	return transport.SearchVolunteersResponse{
		Users:        toResponses(items),
		SearchCenter: transport.SearchCenter{Latitude: center.Lat, Longitude: center.Lon},
	}, nil
}

// List returns all volunteers, newest first.
func (s *Service) List(ctx context.Context) ([]transport.VolunteerResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.storeError(ctx, "list volunteers", err)
	}
	return toResponses(items), nil
}

// Ping reports whether the volunteer store is reachable. It satisfies the
// readiness checker used by the health module.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return apperr.Unavailable("database unavailable", err)
	}
	return nil
}

func (s *Service) storeError(ctx context.Context, op string, err error) error {
	s.log.WithContext(ctx).DatabaseError(op, err)
	return apperr.Internal(msgStoreFailed, err).WithOp(op)
}

// validationError reports missing fields with the "all fields are required"
// message and any other rule violation (such as a length limit) generically.
// The per-field failures go into the details either way.
func validationError(err error) error {
	fields := validator.FieldErrors(err)
	msg := msgFieldsRequired
	for _, tag := range fields {
		if tag != "required" && tag != "notblank" {
			msg = msgFieldsInvalid
			break
		}
	}
	return apperr.Validation(msg).WithDetails(fields)
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// isAbsentOrZero treats a missing value and any numeric zero ("0", "0.0") as
// "no coordinate supplied".
func isAbsentOrZero(raw string) bool {
	if raw == "" {
		return true
	}
	v, err := strconv.ParseFloat(raw, 64)
	return err == nil && v == 0
}

func parseFinite(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}

func toResponse(v repository.Volunteer) transport.VolunteerResponse {
	return transport.VolunteerResponse{
		ID:        v.ID,
		Name:      v.Name,
		Phone:     v.Phone,
		Address:   v.Address,
		Latitude:  v.Latitude,
		Longitude: v.Longitude,
		CreatedAt: v.CreatedAt,
		Distance:  v.Distance,
	}
}

func toResponses(items []repository.Volunteer) []transport.VolunteerResponse {
	out := make([]transport.VolunteerResponse, 0, len(items))
	for _, v := range items {
		out = append(out, toResponse(v))
	}
	return out
}
