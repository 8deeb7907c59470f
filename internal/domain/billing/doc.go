// Package billing holds the customer-facing financial documents: quotations,
// orders, invoices and payment requests.
//
// The document lifecycle runs quotation -> order -> invoice. Each document
// is a tenant-owned aggregate with line items, VAT-exclusive pricing and a
// derived 15% VAT amount. Invoices carry the collection states (SENT, PAID,
// OVERDUE, CANCELLED); payment requests track expected EFT settlements
// against sent invoices.
//
// Totals are never accepted from callers. Adding or removing a line
// recalculates subtotal, VAT and total on the aggregate, and every state
// transition is guarded so documents cannot skip or revisit states.
package billing
