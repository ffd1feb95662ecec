package decor

// Describable has a human readable display name
type Describable interface {
	DisplayName() string
}

// Name is a fixed Describable
type Name string

// DisplayName implements Describable
func (n Name) DisplayName() string {
	return string(n)
}

// DescribeOr returns the display name of d, or fallback when d is nil
func DescribeOr(d Describable, fallback string) string {
	if d == nil {
		return fallback
	}
	return d.DisplayName()
}
