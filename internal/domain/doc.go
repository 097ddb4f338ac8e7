// Package domain contains the core entities of the offline sync layer:
// pending mutations, replay results, and the error taxonomy.
// It has no dependencies on other packages in this repository.
package domain
