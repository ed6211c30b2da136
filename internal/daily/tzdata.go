package daily

// Canonical selection zones must resolve on hosts without a zoneinfo database.
import _ "time/tzdata"
