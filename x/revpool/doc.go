/*
Package revpool implements a revenue pool: an account holding tokens on
behalf of developers, paid out by an admin.

The pool does not keep its own ledger. Its custody balance is whatever the
token service holds under the pool address, which is derived from the
instance identifier. Value arrives by plain token transfers to that address
and leaves through distribute or batch distribute.
*/
package revpool
