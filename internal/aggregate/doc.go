// Package aggregate computes the read-only views shown by the admin,
// driver and customer screens.
//
// Every function is pure over a *model.Document or a slice of records and
// never writes to the store. Calling a function twice on the same input
// yields equal results.
//
// Ratios and averages are returned as shopspring/decimal values rounded to
// the precision the screens display. Currency stays in whole PKR.
//
// BuildDashboard computes all admin sections concurrently and returns once
// each has finished.
package aggregate
