package orders

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// DeriveIDs deriva orderId y commandId de forma determinística a partir del
// contenido del request SOAP (hospital, producto, timestamp). Una reentrega
// del mismo request tras un timeout del cliente produce las mismas claves y
// la deduplicación del guard la absorbe. Con timestamp vacío no hay ancla de
// idempotencia y se generan claves aleatorias.
func DeriveIDs(hospitalID, productCode, timestamp string) (orderID, commandID string) {
	if timestamp == "" {
		id := uuid.NewString()
		return "ORD-" + id, "CMD-" + id
	}
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s", hospitalID, productCode, timestamp))
	digest := hex.EncodeToString(sum[:])[:16]
	return "ORD-" + digest, "CMD-" + digest
}
