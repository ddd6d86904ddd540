package plant

// Visitor handles each plant order. Implementations must cover every order.
type Visitor[T any] interface {
	First(FirstOrder) T
	Second(SecondOrder) T
	Higher(HigherOrder) T
}

// Visit dispatches p to the matching Visitor method.
func Visit[T any](p Plant, v Visitor[T]) T {
	switch p := p.(type) {
	case FirstOrder:
		return v.First(p)
	case *FirstOrder:
		return v.First(*p)
	case SecondOrder:
		return v.Second(p)
	case *SecondOrder:
		return v.Second(*p)
	case HigherOrder:
		return v.Higher(p)
	case *HigherOrder:
		return v.Higher(*p)
	}
	// Plant is sealed; only the cases above can reach here.
	panic("plant: unhandled plant type")
}
