package token

const qEnsureSchema = `--sql b1e84f36-2a90-4d5c-8f17-6c3d05a9e272
create table if not exists accounts (
    id         text primary key,
    balance    bigint not null default 0 check (balance >= 0),
    updated_at timestamptz not null default now()
);
`

const qDebitAccount = `--sql 6a29e7f0-d815-4c43-a3b9-7e50c1d8f624
update accounts
set balance = balance - $2::bigint, updated_at = now()
where id = $1::text and balance >= $2::bigint;
`

const qCreditAccount = `--sql 48f6b2d1-3c07-4e9a-95f4-d21a80c7e593
insert into accounts(id, balance, updated_at)
values ($1::text, $2::bigint, now())
on conflict (id)
do update set balance = accounts.balance + $2::bigint,
              updated_at = now();
`

const qSelectBalance = `--sql f3d90c84-17ab-4562-8c3e-05b9f4d67a21
select balance from accounts where id = $1::text;
`
