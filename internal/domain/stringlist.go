package domain

import "gorm.io/datatypes"

// StringList is an ordered list of strings kept in a JSON column (jsonb on
// postgres). A row that does not hold a JSON array fails to scan.
type StringList = datatypes.JSONSlice[string]
