package notify

// Channel identifies which integration surface an event originated from.
type Channel string

const (
	ChannelThreeDCart    Channel = "3dcart"
	ChannelHubSpot       Channel = "hubspot"
	ChannelInventory     Channel = "inventory"
	ChannelPasswordReset Channel = "password_reset"
	ChannelGeneric       Channel = "generic"
)

// Type is the identity of a notification category. The catalog is closed:
// membership is fixed at compile time, only the recipient lists behind each
// type are mutable.
type Type string

const (
	TypeThreeDCartSuccessWebhook Type = "3dcart_success_webhook"
	TypeThreeDCartFailedWebhook  Type = "3dcart_failed_webhook"
	TypeThreeDCartSuccessManual  Type = "3dcart_success_manual"
	TypeThreeDCartFailedManual   Type = "3dcart_failed_manual"
	TypeHubSpotSuccessWebhook    Type = "hubspot_success_webhook"
	TypeHubSpotFailedWebhook     Type = "hubspot_failed_webhook"
	TypeHubSpotSuccessManual     Type = "hubspot_success_manual"
	TypeHubSpotFailedManual      Type = "hubspot_failed_manual"
	TypeInventorySyncReport      Type = "inventory_sync_report"
	TypePasswordReset            Type = "password_reset"
	TypeGeneric                  Type = "generic"
)

// AllTypes returns the full catalog as strings, in a stable order, for
// catalog-membership validation and the admin surface.
func AllTypes() []string {
	return []string{
		string(TypeThreeDCartSuccessWebhook),
		string(TypeThreeDCartFailedWebhook),
		string(TypeThreeDCartSuccessManual),
		string(TypeThreeDCartFailedManual),
		string(TypeHubSpotSuccessWebhook),
		string(TypeHubSpotFailedWebhook),
		string(TypeHubSpotSuccessManual),
		string(TypeHubSpotFailedManual),
		string(TypeInventorySyncReport),
		string(TypePasswordReset),
		string(TypeGeneric),
	}
}

// ValidType reports whether the string names a catalog member.
func ValidType(s string) bool {
	switch Type(s) {
	case TypeThreeDCartSuccessWebhook, TypeThreeDCartFailedWebhook,
		TypeThreeDCartSuccessManual, TypeThreeDCartFailedManual,
		TypeHubSpotSuccessWebhook, TypeHubSpotFailedWebhook,
		TypeHubSpotSuccessManual, TypeHubSpotFailedManual,
		TypeInventorySyncReport, TypePasswordReset, TypeGeneric:
		return true
	}
	return false
}

// MapType is the pure, total mapping from a business event's coordinates to
// its notification type. The webhook/manual and success/failure axes only
// apply to the order and lead channels; the remaining channels map to their
// fixed type, and anything unrecognized lands on the generic type rather
// than being dropped.
func MapType(channel Channel, isWebhook, isSuccess bool) Type {
	switch channel {
	case ChannelThreeDCart:
		switch {
		case isWebhook && isSuccess:
			return TypeThreeDCartSuccessWebhook
		case isWebhook && !isSuccess:
			return TypeThreeDCartFailedWebhook
		case !isWebhook && isSuccess:
			return TypeThreeDCartSuccessManual
		default:
			return TypeThreeDCartFailedManual
		}
	case ChannelHubSpot:
		switch {
		case isWebhook && isSuccess:
			return TypeHubSpotSuccessWebhook
		case isWebhook && !isSuccess:
			return TypeHubSpotFailedWebhook
		case !isWebhook && isSuccess:
			return TypeHubSpotSuccessManual
		default:
			return TypeHubSpotFailedManual
		}
	case ChannelInventory:
		return TypeInventorySyncReport
	case ChannelPasswordReset:
		return TypePasswordReset
	default:
		return TypeGeneric
	}
}
