package store

// Inline SQL, one constant per statement. The first line carries a marker the
// runner strips and logs, so query activity can be traced without printing
// SQL text.

const qEnsureSchema = `--sql 3f2c9a1e-5d74-4b0a-9c3f-8a21e6d0b544
create table if not exists records (
    kind       text not null,
    id         text not null,
    value      jsonb not null,
    updated_at timestamptz not null default now(),
    expires_at timestamptz,
    primary key (kind, id)
);
`

const qGetRecord = `--sql 7d8e2b90-1f63-4c5a-b2d4-e09a7c513f68
select value
from records
where kind = $1::text
  and id = $2::text
  and (expires_at is null or expires_at > now());
`

const qSetRecord = `--sql c4a1f7d2-8b3e-4960-a5c7-2d94b8e06f13
insert into records(kind, id, value, updated_at, expires_at)
values ($1::text, $2::text, $3::jsonb, now(), $4::timestamptz)
on conflict (kind, id)
do update set value = excluded.value,
              updated_at = excluded.updated_at,
              expires_at = excluded.expires_at;
`

const qHasRecord = `--sql 9e5b3c17-42da-4f88-8e01-6a7f0d92c435
select exists(
    select 1 from records
    where kind = $1::text
      and id = $2::text
      and (expires_at is null or expires_at > now())
);
`

const qRemoveRecord = `--sql 1b6d4e83-97f0-4a2c-bd58-30c2a9f17e06
delete from records
where kind = $1::text and id = $2::text;
`

const qListRecordIDs = `--sql e8f01a26-6c45-49d3-9b72-54d8c3b0a791
select id
from records
where kind = $1::text
  and (expires_at is null or expires_at > now())
order by id;
`

const qPurgeExpired = `--sql 52a7d9c8-0e31-4b6f-a84d-c95e12f703b2
delete from records
where expires_at is not null and expires_at <= now();
`
