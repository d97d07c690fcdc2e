package services

import (
	"context"
	"log"
	"math"
	"sort"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/shopspring/decimal"
)

const (
	// Mean Earth radius in meters, for haversine.
	earthRadiusMeters = 6371000.0
	// Assumed constant delivery speed.
	deliverySpeedKmPerHour = 50.0
)

// SellerLeg is one seller's position in the synthesized delivery route.
type SellerLeg struct {
	SellerID       string  `json:"seller_id"`
	SellerName     string  `json:"seller_name"`
	DistanceMeters float64 `json:"distance_meters"`
}

// TravelEstimate is the result of the multi-seller freight estimation.
// A zero estimate with OptimalRoute=false means "freight unknown", not
// "freight free" — callers decide how to treat the degradation.
type TravelEstimate struct {
	TotalDistanceMeters float64         `json:"total_distance_meters"`
	TotalTimeSeconds    float64         `json:"total_time_seconds"`
	TotalTimeHours      float64         `json:"total_time_hours"`
	TotalFreightCost    decimal.Decimal `json:"total_freight_cost"`
	Sellers             []SellerLeg     `json:"sellers"`
	OptimalRoute        bool            `json:"optimal_route"`
}

func zeroEstimate() *TravelEstimate {
	return &TravelEstimate{
		TotalFreightCost: decimal.Zero,
		Sellers:          []SellerLeg{},
		OptimalRoute:     false,
	}
}

type TravelEstimatorService struct {
	geocoder  GeocodingClient
	ratePerKm decimal.Decimal
}

func NewTravelEstimatorService(geocoder GeocodingClient, ratePerKm float64) *TravelEstimatorService {
	if ratePerKm <= 0 {
		ratePerKm = 1.0
	}
	return &TravelEstimatorService{
		geocoder:  geocoder,
		ratePerKm: decimal.NewFromFloat(ratePerKm),
	}
}

// EstimateTravel builds the synthetic delivery route for a draft order:
// every seller is geocoded, sellers are ordered furthest-first from the
// customer, and the route runs furthest seller -> ... -> closest seller ->
// customer. It never fails: any unresolvable party degrades to the zero
// estimate.
func (s *TravelEstimatorService) EstimateTravel(ctx context.Context, draft *models.OrderDraft) *TravelEstimate {
	return s.EstimateTravelWithRate(ctx, draft, s.ratePerKm)
}

// EstimateTravelWithRate is EstimateTravel with a caller-supplied per-km
// freight rate.
func (s *TravelEstimatorService) EstimateTravelWithRate(ctx context.Context, draft *models.OrderDraft, ratePerKm decimal.Decimal) *TravelEstimate {
	if draft == nil || draft.Customer == nil || len(draft.Sellers) == 0 || s.geocoder == nil {
		return zeroEstimate()
	}

	customerLoc, err := s.geocoder.Geocode(ctx, draft.Customer.FullAddress())
	if err != nil || customerLoc == nil {
		log.Printf("TravelEstimator: failed to geocode customer address for user %s: %v", draft.Customer.ID, err)
		return zeroEstimate()
	}

	type sellerStop struct {
		seller   models.User
		loc      *GeoLocation
		distance float64
	}

	var stops []sellerStop
	for _, seller := range draft.Sellers {
		loc, err := s.geocoder.Geocode(ctx, seller.FullAddress())
		if err != nil || loc == nil {
			log.Printf("TravelEstimator: failed to geocode address for seller %s: %v", seller.ID, err)
			return zeroEstimate()
		}
		stops = append(stops, sellerStop{
			seller:   seller,
			loc:      loc,
			distance: Haversine(customerLoc.Lat, customerLoc.Lon, loc.Lat, loc.Lon),
		})
	}

	// Furthest-first: the route starts at the seller furthest from the
	// customer and works inward, ending at the customer.
	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].distance > stops[j].distance
	})

	legs := make([]SellerLeg, 0, len(stops))
	totalDistance := 0.0
	prev := stops[0].loc
	for i, stop := range stops {
		if i > 0 {
			totalDistance += Haversine(prev.Lat, prev.Lon, stop.loc.Lat, stop.loc.Lon)
			prev = stop.loc
		}
		legs = append(legs, SellerLeg{
			SellerID:       stop.seller.ID,
			SellerName:     stop.seller.FullName(),
			DistanceMeters: stop.distance,
		})
	}
	// Final leg: closest seller to the customer.
	totalDistance += Haversine(prev.Lat, prev.Lon, customerLoc.Lat, customerLoc.Lon)

	totalTimeHours := (totalDistance / 1000.0) / deliverySpeedKmPerHour
	totalKm := decimal.NewFromFloat(totalDistance / 1000.0)

	return &TravelEstimate{
		TotalDistanceMeters: totalDistance,
		TotalTimeSeconds:    totalTimeHours * 3600.0,
		TotalTimeHours:      totalTimeHours,
		TotalFreightCost:    totalKm.Mul(ratePerKm).Round(2),
		Sellers:             legs,
		OptimalRoute:        true,
	}
}

// Haversine returns the great-circle distance in meters between two
// (lat, lon) points on a sphere of mean Earth radius.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180.0

	phi1 := lat1 * degToRad
	phi2 := lat2 * degToRad
	dPhi := (lat2 - lat1) * degToRad
	dLambda := (lon2 - lon1) * degToRad

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
