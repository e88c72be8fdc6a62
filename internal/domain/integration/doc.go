// Package integration contains the Integration bounded context.
// This context manages the link between the internal catalog and the Shopify
// storefront.
//
// Key concepts:
//   - ExternalIdentifier: Entity mapping one remote entity to one internal entity
//   - IntegrationLog: Append-only audit record of one sync attempt
//   - RemoteProduct / RemoteCollection: Canonical read-only storefront snapshots
//   - QueryRunner: Port for executing Admin API GraphQL documents
//   - CatalogAPI: Port giving the sync engine access to the internal catalog
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure and application layers
package integration
