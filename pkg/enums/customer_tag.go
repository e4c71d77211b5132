package enums

// CustomerTag labels a customer segment derived from purchase history.
type CustomerTag string

const (
	CustomerTagVIP      CustomerTag = "VIP"
	CustomerTagFrequent CustomerTag = "Frecuente"
	CustomerTagNew      CustomerTag = "Nuevo"
)

// String implements fmt.Stringer.
func (t CustomerTag) String() string {
	return string(t)
}
