// Package model defines the data structures shared by the Mission Control
// packages.
//
// The main type is IntakeReport, the working record for one task intake
// request. It is filled in by the pipeline steps, rendered by the report
// writers and, when journaling is enabled, stored by the database package.
//
// Design decision: We keep these types in their own package so that pipeline,
// report, server and database can share them without import cycles. The pure
// transform itself lives in the intake package and knows nothing about
// IntakeReport.
package model
