/*
Package settlement accumulates the value earned by developers.

A settlement is created by its admin and bound to a single vault. The vault,
or the admin, reports payments that are credited either to a global pool or
to the balance of a specific developer. Balances are only bookkeeping: no
token moves as a result of a payment being received.
*/
package settlement
