/*
Package x contains the shared building blocks of the custody extensions.

The Authenticator abstraction lets a handler learn which conditions signed
the current transaction without knowing how signatures are verified. On top
of it Authenticate, RequireRole and RequireOneOf implement the caller checks
every mutating operation performs before it touches state: first the
declared caller must have authenticated the transaction, then it must hold
the role stored for the operation.

Sub-packages implement the extensions themselves (vault, settlement,
revenue pool, token wallets) and the decorators used to assemble an
application.
*/
package x
