package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// DecodeRows validates raw warehouse rows against the facility schema and
// converts them into a Dataset. It is the only place the schema is checked:
// everything downstream works on typed records.
func DecodeRows(rows []Row) (Dataset, error) {
	if len(rows) > 0 {
		for _, col := range RequiredColumns {
			if _, ok := rows[0][col]; !ok {
				return Dataset{}, &SchemaError{Row: -1, Column: col, Reason: "column missing"}
			}
		}
	}

	records := make([]Facility, 0, len(rows))
	for i, row := range rows {
		f, err := decodeRow(i, row)
		if err != nil {
			return Dataset{}, err
		}
		records = append(records, f)
	}
	return Dataset{Records: records, LoadedAt: clock.Now()}, nil
}

func decodeRow(i int, row Row) (Facility, error) {
	for _, col := range RequiredColumns {
		if _, ok := row[col]; !ok {
			return Facility{}, &SchemaError{Row: i, Column: col, Reason: "column missing"}
		}
	}

	id, err := identifier(row[ColumnFacilityID])
	if err != nil {
		return Facility{}, &SchemaError{Row: i, Column: ColumnFacilityID, Reason: err.Error()}
	}

	var f Facility
	f.ID = id
	for _, c := range []struct {
		col string
		dst *float64
	}{
		{ColumnLatitude, &f.Lat},
		{ColumnLongitude, &f.Lon},
		{ColumnElevation, &f.ElevationFt},
	} {
		v, ok, err := number(row[c.col])
		if err != nil {
			return Facility{}, &SchemaError{Row: i, Column: c.col, Reason: err.Error()}
		}
		if !ok {
			return Facility{}, &SchemaError{Row: i, Column: c.col, Reason: "null value"}
		}
		*c.dst = v
	}

	if f.Lat < -90 || f.Lat > 90 {
		return Facility{}, &SchemaError{Row: i, Column: ColumnLatitude, Reason: fmt.Sprintf("latitude %g out of range", f.Lat)}
	}
	if f.Lon < -180 || f.Lon > 180 {
		return Facility{}, &SchemaError{Row: i, Column: ColumnLongitude, Reason: fmt.Sprintf("longitude %g out of range", f.Lon)}
	}

	flag, err := activeFlag(row[ColumnActiveFlag])
	if err != nil {
		return Facility{}, &SchemaError{Row: i, Column: ColumnActiveFlag, Reason: err.Error()}
	}
	f.ActiveFlag = flag
	return f, nil
}

// identifier accepts string and integral identifiers.
func identifier(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", fmt.Errorf("null value")
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return "", fmt.Errorf("empty identifier")
		}
		return s, nil
	case json.Number:
		return x.String(), nil
	case int:
		return strconv.Itoa(x), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return "", fmt.Errorf("non-integral identifier %g", x)
		}
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported identifier type %T", v)
	}
}

// number converts the numeric representations returned by the warehouse
// drivers. ok is false for NULL.
func number(v any) (float64, bool, error) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		p, err := x.Float64()
		if err != nil {
			return 0, false, fmt.Errorf("non-numeric value %q", x.String())
		}
		f = p
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false, nil
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fmt.Errorf("non-numeric value %q", x)
		}
		f = p
	case *big.Rat:
		if x == nil {
			return 0, false, nil
		}
		f, _ = x.Float64()
	default:
		return 0, false, fmt.Errorf("unsupported numeric type %T", v)
	}
	if math.IsNaN(f) {
		return 0, false, nil
	}
	if math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("infinite value")
	}
	return f, true, nil
}

// activeFlag fills NULL with 0 and truncates to an integer.
func activeFlag(v any) (int, error) {
	if b, ok := v.(bool); ok {
		if b {
			return 1, nil
		}
		return 0, nil
	}
	f, ok, err := number(v)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	flag := int(math.Trunc(f))
	if flag != 0 && flag != 1 {
		return 0, fmt.Errorf("active flag %d is not 0 or 1", flag)
	}
	return flag, nil
}
