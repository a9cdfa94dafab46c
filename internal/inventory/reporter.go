package inventory

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"

	"github.com/iliyamo/flight-inventory/internal/model"
)

const topDestinations = 3

// DestinationCount is the number of booked seats flown into one airport.
type DestinationCount struct {
	Airport string `json:"airport"`
	Booked  int    `json:"booked"`
}

func validateYear(year int) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: invalid year %d", ErrValidation, year)
	}
	return nil
}

// MonthlyRevenue sums the revenue of owner's flights departing in year,
// indexed by month (0 = January).
func (s *Service) MonthlyRevenue(ctx context.Context, ownerID uint64, year int) (out [12]int64, err error) {
	ctx, span := s.startSpan(ctx, "inventory.MonthlyRevenue", idAttr("owner.id", ownerID), attribute.Int("report.year", year))
	defer func() { endSpan(span, err) }()

	if err := validateYear(year); err != nil {
		return out, err
	}
	if ownerID == 0 {
		return out, nil
	}
	var stats []model.FlightStat
	err = s.store.View(ctx, func(ctx context.Context, tx Tx) error {
		stats, err = tx.ListFlightStats(ctx, year, ownerID)
		return err
	})
	if err != nil {
		return out, err
	}
	for _, st := range stats {
		dep := st.ActualDeparture.UTC()
		if st.OwnerID != ownerID || dep.Year() != year {
			continue
		}
		out[dep.Month()-1] += st.Revenue
	}
	return out, nil
}

// PopularDestinations ranks destination airports by booked seats for
// each month of year and keeps the top three per month.  Booked seats
// of a flight are its aircraft's seat count minus its free seats.  Ties
// are ordered by airport code.
func (s *Service) PopularDestinations(ctx context.Context, year int) (out [12][]DestinationCount, err error) {
	ctx, span := s.startSpan(ctx, "inventory.PopularDestinations", attribute.Int("report.year", year))
	defer func() { endSpan(span, err) }()

	if err := validateYear(year); err != nil {
		return out, err
	}
	var stats []model.FlightStat
	err = s.store.View(ctx, func(ctx context.Context, tx Tx) error {
		stats, err = tx.ListFlightStats(ctx, year, 0)
		return err
	})
	if err != nil {
		return out, err
	}

	var perMonth [12]map[string]int
	for _, st := range stats {
		dep := st.ActualDeparture.UTC()
		if dep.Year() != year || st.DestAirportCode == "" {
			continue
		}
		m := dep.Month() - 1
		if perMonth[m] == nil {
			perMonth[m] = make(map[string]int)
		}
		perMonth[m][st.DestAirportCode] += st.TotalSeats - (st.AvailBusiness + st.AvailEconomy)
	}

	for m, counts := range perMonth {
		ranked := make([]DestinationCount, 0, len(counts))
		for code, n := range counts {
			ranked = append(ranked, DestinationCount{Airport: code, Booked: n})
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].Booked != ranked[j].Booked {
				return ranked[i].Booked > ranked[j].Booked
			}
			return ranked[i].Airport < ranked[j].Airport
		})
		if len(ranked) > topDestinations {
			ranked = ranked[:topDestinations]
		}
		out[m] = ranked
	}
	return out, nil
}
