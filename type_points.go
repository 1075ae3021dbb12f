package points

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
)

// Points is a balance of points or miles. Fractional points do not exist.
type Points uint64

// MaxBalance is the largest balance a program can hold.
const MaxBalance Points = math.MaxInt64

// grouping formats integers with a thousand separator and no currency sign.
var grouping = money.NewFormatter(0, ".", ",", "", "1")

// String returns the balance with thousands separators, like "125,430".
func (p Points) String() string {
	if p > MaxBalance {
		return fmt.Sprintf("%s,%03d", p/1000, uint64(p%1000))
	}
	return grouping.Format(int64(p))
}
