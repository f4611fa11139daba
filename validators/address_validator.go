package validators

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/madebyaris/woo-headless-sub002/models"
)

// CountryRule holds per-country address validation rules.
type CountryRule struct {
	PostcodeRequired bool
	PostcodePattern  *regexp.Regexp
	StateRequired    bool
	PhonePattern     *regexp.Regexp
}

var defaultPhonePattern = regexp.MustCompile(`^\+?[0-9 ().-]{7,20}$`)

var countryRules = map[string]CountryRule{
	"US": {
		PostcodeRequired: true,
		PostcodePattern:  regexp.MustCompile(`^\d{5}(-\d{4})?$`),
		StateRequired:    true,
		PhonePattern:     regexp.MustCompile(`^\+?1?[0-9 ().-]{10,16}$`),
	},
	"CA": {
		PostcodeRequired: true,
		PostcodePattern:  regexp.MustCompile(`^[A-Za-z]\d[A-Za-z] ?\d[A-Za-z]\d$`),
		StateRequired:    true,
	},
	"GB": {
		PostcodeRequired: true,
		PostcodePattern:  regexp.MustCompile(`^[A-Za-z]{1,2}\d[A-Za-z\d]? ?\d[A-Za-z]{2}$`),
	},
	"DE": {
		PostcodeRequired: true,
		PostcodePattern:  regexp.MustCompile(`^\d{5}$`),
	},
	"FR": {
		PostcodeRequired: true,
		PostcodePattern:  regexp.MustCompile(`^\d{5}$`),
	},
	"NL": {
		PostcodeRequired: true,
		PostcodePattern:  regexp.MustCompile(`^\d{4} ?[A-Za-z]{2}$`),
	},
	"AU": {
		PostcodeRequired: true,
		PostcodePattern:  regexp.MustCompile(`^\d{4}$`),
		StateRequired:    true,
	},
	"JP": {
		PostcodeRequired: true,
		PostcodePattern:  regexp.MustCompile(`^\d{3}-?\d{4}$`),
	},
	"BR": {
		PostcodeRequired: true,
		PostcodePattern:  regexp.MustCompile(`^\d{5}-?\d{3}$`),
		StateRequired:    true,
	},
	"IN": {
		PostcodeRequired: true,
		PostcodePattern:  regexp.MustCompile(`^\d{6}$`),
		StateRequired:    true,
	},
	// HK and a few others genuinely have no postcode
	"HK": {},
	"AE": {},
}

// FieldRequirements are caller-supplied overrides merged on top of the
// per-country base rules.
type FieldRequirements struct {
	RequireCompany bool
	RequirePhone   bool
	RequireEmail   bool
}

// AddressValidator validates postal addresses against country-specific rules.
type AddressValidator struct {
	requireEmailForBilling bool
	overrides              FieldRequirements
	logger                 *zap.Logger
}

// NewAddressValidator creates an address validator. requireEmailForBilling is
// the checkout-wide rule; overrides apply to both address kinds.
func NewAddressValidator(requireEmailForBilling bool, overrides FieldRequirements, logger *zap.Logger) *AddressValidator {
	return &AddressValidator{
		requireEmailForBilling: requireEmailForBilling,
		overrides:              overrides,
		logger:                 logger,
	}
}

// ruleFor resolves the country rule, falling back to a permissive default.
func ruleFor(country string) CountryRule {
	if rule, ok := countryRules[strings.ToUpper(country)]; ok {
		return rule
	}
	return CountryRule{PostcodeRequired: true}
}

// Validate checks an address against merged requirements. Missing or
// malformed required fields are hard errors; a suspicious phone format is a
// soft warning only.
func (v *AddressValidator) Validate(addr models.Address, kind models.AddressKind) models.ValidationResult {
	component := models.ComponentBillingAddress
	if kind == models.AddressKindShipping {
		component = models.ComponentShippingAddress
	}
	result := models.NewValidationResult(component)

	if addr.IsEmpty() {
		result.AddError(fmt.Sprintf("%s address is required", kind))
		return result
	}

	requireField(&result, addr.FirstName, "first_name")
	requireField(&result, addr.LastName, "last_name")
	requireField(&result, addr.Address1, "address_1")
	requireField(&result, addr.City, "city")
	requireField(&result, addr.Country, "country")

	if addr.Country != "" && len(strings.TrimSpace(addr.Country)) != 2 {
		result.AddError("country must be an ISO 3166-1 alpha-2 code")
		return result
	}

	rule := ruleFor(addr.Country)

	if rule.StateRequired && strings.TrimSpace(addr.State) == "" {
		result.AddError("state is required for " + strings.ToUpper(addr.Country))
	}
	if rule.PostcodeRequired && strings.TrimSpace(addr.Postcode) == "" {
		result.AddError("postcode is required for " + strings.ToUpper(addr.Country))
	} else if addr.Postcode != "" && rule.PostcodePattern != nil && !rule.PostcodePattern.MatchString(strings.TrimSpace(addr.Postcode)) {
		result.AddError(fmt.Sprintf("postcode %q is not valid for %s", addr.Postcode, strings.ToUpper(addr.Country)))
	}

	if v.overrides.RequireCompany && strings.TrimSpace(addr.Company) == "" {
		result.AddError("company is required")
	}
	if v.overrides.RequirePhone && strings.TrimSpace(addr.Phone) == "" {
		result.AddError("phone is required")
	}

	emailRequired := v.overrides.RequireEmail ||
		(kind == models.AddressKindBilling && v.requireEmailForBilling)
	if emailRequired && strings.TrimSpace(addr.Email) == "" {
		result.AddError("email is required")
	}
	if addr.Email != "" && !strings.Contains(addr.Email, "@") {
		result.AddError(fmt.Sprintf("email %q is malformed", addr.Email))
	}

	if addr.Phone != "" {
		pattern := rule.PhonePattern
		if pattern == nil {
			pattern = defaultPhonePattern
		}
		if !pattern.MatchString(strings.TrimSpace(addr.Phone)) {
			result.AddWarning(fmt.Sprintf("phone %q does not look like a valid number for %s", addr.Phone, strings.ToUpper(addr.Country)))
		}
	}

	if !result.IsValid && v.logger != nil {
		v.logger.Debug("address validation failed",
			zap.String("kind", string(kind)),
			zap.Strings("errors", result.Errors),
		)
	}
	return result
}

func requireField(result *models.ValidationResult, value, name string) {
	if strings.TrimSpace(value) == "" {
		result.AddError(name + " is required")
	}
}

// SuggestCorrection returns a best-effort normalized copy of the address, or
// nil when no change would be made. Only mechanical fixes are attempted:
// country/postcode casing and postcode reformatting.
func (v *AddressValidator) SuggestCorrection(addr models.Address) *models.Address {
	suggested := addr
	suggested.Country = strings.ToUpper(strings.TrimSpace(addr.Country))
	suggested.Postcode = strings.TrimSpace(addr.Postcode)

	switch suggested.Country {
	case "GB", "CA", "NL":
		suggested.Postcode = strings.ToUpper(suggested.Postcode)
	case "US":
		// strip a stray space in ZIP+4, e.g. "94105 1234" -> "94105-1234"
		if m := regexp.MustCompile(`^(\d{5})[ ]+(\d{4})$`).FindStringSubmatch(suggested.Postcode); m != nil {
			suggested.Postcode = m[1] + "-" + m[2]
		}
	}

	if suggested == addr {
		return nil
	}
	return &suggested
}
