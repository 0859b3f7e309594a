package session

import "github.com/dmitrijs2005/storefront/internal/client/models"

// Reconcile upgrades cached with the authoritative record. Only non-empty
// record fields replace cached ones, so a partial record never blanks the
// identity. The result reports whether anything changed. Records of another
// user are ignored.
func Reconcile(cached models.Identity, rec models.UserRecord) (models.Identity, bool) {
	if rec.ID != cached.ID {
		return cached, false
	}

	out := cached
	upgrade(&out.Name, rec.Name)
	upgrade(&out.Surname, rec.Surname)
	upgrade(&out.Email, rec.Email)
	upgrade(&out.Role, rec.Role)

	return out, out != cached
}

func upgrade(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
