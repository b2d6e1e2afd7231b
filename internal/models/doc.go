// Package models defines the core domain models for the gift contract builder.
//
// # Models
//
//   - ContractData: the aggregate root describing one gift contract
//   - Party: donor or donee (name and address)
//   - Gift: one item transferred under the contract
//   - Draft: a ContractData kept by the local server between requests
//
// # Design Principles
//
//  1. **Value semantics**: ContractData is passed by value; Clone returns a
//     copy whose gift slice is not shared with the original
//  2. **Display dates**: ContractDate holds the localized display string
//     (YYYY年MM月DD日), never a time.Time
//  3. **At least one gift**: every ContractData built by this package has a
//     non-empty Gifts slice; the form controller keeps it that way
package models
