/*
Package system implements the system program: the storage allocator
and the native deposit transfers.

Every account is created by the allocator. It assigns a zeroed storage
region to an account and funds it from a payer with the minimum balance
required to retain the region, as defined by the Rent configuration.
Other programs receive the allocator with every instruction and call it
to obtain storage for their records.

The system program owns all accounts that were not assigned to another
program. It serves the following instructions, selected by the first
byte of the instruction data:

  0 create account   [payer, account]     space u64 | owner[32]
  2 transfer         [from, to]           lamports u64
  3 update rent      [owner]              amino encoded Rent patch
*/
package system
