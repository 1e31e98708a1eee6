package where

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	"github.com/fraiseql/fraiseql-go/internal/sqltext"
)

// geometryStrategy handles fields holding WKT geometry text. Operands are
// validated by parsing them into orb geometries and re-marshaling, so only
// well-formed WKT reaches SQL text. All geometries are interpreted in
// SRID 4326.
type geometryStrategy struct {
	generic genericStrategy
}

func newGeometryStrategy() geometryStrategy {
	return geometryStrategy{generic: genericStrategy{declared: TypeGeometry}}
}

func (s geometryStrategy) build(acc Accessor, op string, value any) (string, error) {
	switch op {
	case "eq":
		lit, err := s.wktLiteral(op, value)
		if err != nil {
			return "", err
		}
		return "ST_Equals(" + s.geomAccessor(acc) + ", " + lit + ")", nil
	case "intersects":
		lit, err := s.wktLiteral(op, value)
		if err != nil {
			return "", err
		}
		return "ST_Intersects(" + s.geomAccessor(acc) + ", " + lit + ")", nil
	case "distance_within":
		return s.distanceWithin(acc, op, value)
	case "within_bbox":
		return s.withinBBox(acc, op, value)
	case "isnull":
		return s.generic.build(acc, op, value)
	default:
		return "", &UnsupportedOperatorError{Operator: op, Type: TypeGeometry}
	}
}

// wktLiteral parses and re-marshals a WKT operand. Marshaling the parsed
// geometry rather than echoing the input normalizes whitespace and case.
func (s geometryStrategy) wktLiteral(op string, value any) (string, error) {
	str, ok := value.(string)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: "value must be a WKT string"}
	}
	geom, err := wkt.Unmarshal(str)
	if err != nil {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: fmt.Sprintf("invalid WKT %q", str)}
	}
	return s.geomLiteral(geom), nil
}

// distanceWithin tests whether the field lies within radius meters of a
// point, given as {"lat", "lng", "radius"}.
func (s geometryStrategy) distanceWithin(acc Accessor, op string, value any) (string, error) {
	args, ok := value.(map[string]any)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: `value must be an object with "lat", "lng" and "radius"`}
	}
	lat, err := floatArgument(args, op, "lat")
	if err != nil {
		return "", err
	}
	lng, err := floatArgument(args, op, "lng")
	if err != nil {
		return "", err
	}
	radius, err := floatArgument(args, op, "radius")
	if err != nil {
		return "", err
	}
	center := s.geomLiteral(orb.Point{lng, lat})
	return fmt.Sprintf("ST_DWithin(%s::geography, %s::geography, %s)",
		s.geomAccessor(acc), center, formatFloat(radius)), nil
}

// withinBBox tests intersection with a lat/lng bounding box via the
// geometry overlap operator.
func (s geometryStrategy) withinBBox(acc Accessor, op string, value any) (string, error) {
	args, ok := value.(map[string]any)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: `value must be an object with "min_lat", "min_lng", "max_lat" and "max_lng"`}
	}
	minLat, err := floatArgument(args, op, "min_lat")
	if err != nil {
		return "", err
	}
	minLng, err := floatArgument(args, op, "min_lng")
	if err != nil {
		return "", err
	}
	maxLat, err := floatArgument(args, op, "max_lat")
	if err != nil {
		return "", err
	}
	maxLng, err := floatArgument(args, op, "max_lng")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s && ST_MakeEnvelope(%s, %s, %s, %s, 4326)",
		s.geomAccessor(acc),
		formatFloat(minLng), formatFloat(minLat),
		formatFloat(maxLng), formatFloat(maxLat)), nil
}

func (s geometryStrategy) geomAccessor(acc Accessor) string {
	return "ST_GeomFromText(" + acc.Text() + ", 4326)"
}

func (s geometryStrategy) geomLiteral(geom orb.Geometry) string {
	return "ST_GeomFromText(" + sqltext.QuoteLiteral(wkt.MarshalString(geom)) + ", 4326)"
}

func floatArgument(args map[string]any, op, key string) (float64, error) {
	raw, ok := args[key]
	if !ok {
		return 0, &InvalidOperatorArgumentError{Operator: op, Reason: fmt.Sprintf("missing %q", key)}
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, &InvalidOperatorArgumentError{Operator: op, Reason: fmt.Sprintf("%q must be a number", key)}
	}
}
