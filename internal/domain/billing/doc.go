// Package billing provides domain models for subscription plans and
// feature entitlements.
//
// This package implements the billing bounded context, which is
// responsible for:
//   - Tracking each space's subscription and its lifecycle
//   - Defining what each plan allows (features and numeric limits)
//   - Recording provider webhook events for idempotent processing
//
// Key aggregates and entities:
//   - Subscription: A space's current plan, provider references and renewal state
//   - PlanFeature: A database override for one feature of one plan
//
// The application layer consults this package through the feature
// guard; other domains never read plan entitlements directly.
package billing
