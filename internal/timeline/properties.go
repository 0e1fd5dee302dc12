package timeline

import "github.com/ivlev/animtimeline/internal/value"

// Animatable property names.
const (
	PropX                = "x"
	PropY                = "y"
	PropWidth            = "width"
	PropHeight           = "height"
	PropRotation         = "rotation"
	PropScaleX           = "scaleX"
	PropScaleY           = "scaleY"
	PropOpacity          = "opacity"
	PropFill             = "fill"
	PropStroke           = "stroke"
	PropStrokeWidth      = "strokeWidth"
	PropCornerRadius     = "cornerRadius"
	PropDrawStartPercent = "drawStartPercent"
	PropDrawEndPercent   = "drawEndPercent"
	PropText             = "text"
	PropFontSize         = "fontSize"
	PropPoints           = "points"
	PropClosed           = "closed"
	PropX2               = "x2"
	PropY2               = "y2"
	PropMotionPath       = "motionPath"
)

// DefaultValue is used when a property has neither keyframes nor a static
// value on its node.
func DefaultValue(property string) value.Value {
	switch property {
	case PropOpacity, PropScaleX, PropScaleY, PropDrawEndPercent:
		return value.Number(1)
	}
	return value.Number(0)
}

// ValueKind reports which string variant a property holds, so documents can
// store colors and references as plain strings.
func ValueKind(property string) value.Kind {
	switch property {
	case PropFill, PropStroke:
		return value.KindColor
	case PropMotionPath:
		return value.KindPathRef
	case PropPoints:
		return value.KindPoints
	case PropText:
		return value.KindText
	}
	return value.KindNumber
}

// IsPaint reports whether the property can hold a color or gradient.
func IsPaint(property string) bool {
	return property == PropFill || property == PropStroke
}
