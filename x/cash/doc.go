/*
Package cash implements the custodial token service: per token balances of
any holder, moved only by the holder itself or by another extension through
the Controller.

There is no logic in the tokens, except that the balance of any holder may
never go below zero. Thus, this implementation is referred to as cash.
Simple and safe.
*/
package cash
