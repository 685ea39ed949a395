package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecuritySigned                      // Authenticated by a gateway signature in the request
	SecurityAccess                      // Customer session token required
)

// EndpointSecurityConfig maps "METHOD path-template" to the required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Health - Public
	"GET /api/health": SecurityPublic,

	// Cart pricing - Public
	"POST /api/cart/quote":  SecurityPublic,
	"POST /api/cart/coupon": SecurityPublic,

	// Orders - Access Protected
	"POST /api/orders":     SecurityAccess,
	"GET /api/orders":      SecurityAccess,
	"GET /api/orders/{id}": SecurityAccess,

	// Payment - Access Protected
	"POST /api/payment/create-order": SecurityAccess,

	// Payment - verified by HMAC signature instead of a session
	"POST /api/payment/verify-payment": SecuritySigned,
	"POST /api/payment/webhook":        SecuritySigned,
}

// GetEndpointSecurityLevel returns the security level for a route.
// Unknown routes require an access token.
func GetEndpointSecurityLevel(method, pathTemplate string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[method+" "+pathTemplate]; ok {
		return level
	}
	return SecurityAccess
}
