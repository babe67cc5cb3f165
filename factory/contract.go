package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
)

// ParseContract decodes a JSON contract. Only malformed JSON is an error:
// missing or out-of-range values are left for payroll.Normalize.
func ParseContract(data []byte) (payroll.ContractInput, error) {
	var in payroll.ContractInput
	if err := json.Unmarshal(data, &in); err != nil {
		return payroll.ContractInput{}, fmt.Errorf("%w: failed to parse contract JSON: %v", generic.ErrInvalidInput, err)
	}
	return in, nil
}
