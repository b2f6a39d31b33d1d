// Package fixtures builds valid test data for the lending engine.
package fixtures
