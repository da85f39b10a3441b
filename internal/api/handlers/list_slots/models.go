package list_slots

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/service/slots/models"
)

// ToServiceRequest создает запрос сервиса из query параметров
// centerId, date, dateFrom, dateTo, status (все опциональны)
func ToServiceRequest(query url.Values) (*models.ListSlotsRequest, error) {
	req := &models.ListSlotsRequest{}

	if v := query.Get("centerId"); v != "" {
		centerID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("centerId: %w", err)
		}
		req.CenterID = &centerID
	}

	var err error
	if req.Date, err = parseDate(query, "date"); err != nil {
		return nil, err
	}
	if req.DateFrom, err = parseDate(query, "dateFrom"); err != nil {
		return nil, err
	}
	if req.DateTo, err = parseDate(query, "dateTo"); err != nil {
		return nil, err
	}

	if v := query.Get("status"); v != "" {
		req.Status = &v
	}

	return req, nil
}

func parseDate(query url.Values, key string) (*time.Time, error) {
	v := query.Get(key)
	if v == "" {
		return nil, nil
	}

	date, err := time.Parse(domain.DateFormat, v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	return &date, nil
}
